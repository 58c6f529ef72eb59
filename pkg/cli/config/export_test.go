package config

// NewGeminiForTest creates a Gemini config for testing purposes
func NewGeminiForTest(projectID, location string) *Gemini {
	return &Gemini{
		projectID: projectID,
		location:  location,
	}
}

// NewLoggerForTest creates a Logger config for testing purposes
func NewLoggerForTest(level, format, output string) *Logger {
	return &Logger{level: level, format: format, output: output}
}

// NewGeoForTest creates a Geo config for testing purposes
func NewGeoForTest(baseURL, userAgent, email string, rate float64) *Geo {
	return &Geo{baseURL: baseURL, userAgent: userAgent, email: email, rate: rate}
}

// NewArchiveForTest creates an Archive config for testing purposes
func NewArchiveForTest(bucket, prefix, endpoint string) *Archive {
	return &Archive{bucket: bucket, prefix: prefix, endpoint: endpoint}
}

// NewSentryForTest creates a Sentry config for testing purposes
func NewSentryForTest(dsn, environment string) *Sentry {
	return &Sentry{dsn: dsn, environment: environment}
}

// NewAppForTest creates an App config for testing purposes
func NewAppForTest(path string) *App {
	return &App{path: path}
}
