package export

// WrapTextForTest exposes line wrapping with the body face at scale 1
func WrapTextForTest(s string, maxWidth int) ([]string, error) {
	fonts, err := loadFonts()
	if err != nil {
		return nil, err
	}
	fc, err := newFaces(fonts, 1)
	if err != nil {
		return nil, err
	}
	defer fc.Close()
	return wrapText(fc.activity, s, maxWidth), nil
}
