package usecase

import (
	"github.com/secmon-lab/perfectday/pkg/domain/interfaces"
	"github.com/secmon-lab/perfectday/pkg/service/archive"
	"github.com/secmon-lab/perfectday/pkg/service/export"
)

type UseCases struct {
	repo      interfaces.Repository
	requester interfaces.PlanRequester
	pipeline  *export.Pipeline
	archive   *archive.Archive
	Generate  *GenerateUseCase
	Session   *SessionUseCase
}

type Option func(*UseCases)

// WithGenerate enables in-process plan generation. Unless WithPlanRequester
// is also given, sessions request their plans from it.
func WithGenerate(gen *GenerateUseCase) Option {
	return func(uc *UseCases) {
		uc.Generate = gen
	}
}

// WithPlanRequester sets where sessions request plans from, e.g. a remote
// backend client.
func WithPlanRequester(requester interfaces.PlanRequester) Option {
	return func(uc *UseCases) {
		uc.requester = requester
	}
}

func WithExportPipeline(pipeline *export.Pipeline) Option {
	return func(uc *UseCases) {
		uc.pipeline = pipeline
	}
}

// WithArchive copies every saved export into Cloud Storage
func WithArchive(a *archive.Archive) Option {
	return func(uc *UseCases) {
		uc.archive = a
	}
}

func New(repo interfaces.Repository, opts ...Option) *UseCases {
	uc := &UseCases{
		repo: repo,
	}

	for _, opt := range opts {
		opt(uc)
	}

	if uc.requester == nil && uc.Generate != nil {
		uc.requester = uc.Generate
	}
	if uc.pipeline == nil {
		uc.pipeline = export.NewPipeline()
	}

	uc.Session = NewSessionUseCase(repo, uc.requester, uc.pipeline, uc.archive)

	return uc
}
