//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/yanqian/docsum/internal/bootstrap"
	"github.com/yanqian/docsum/internal/domain/documents"
	"github.com/yanqian/docsum/internal/domain/summarizer"
	"github.com/yanqian/docsum/internal/infra/config"
	"github.com/yanqian/docsum/internal/infra/extract"
	httpiface "github.com/yanqian/docsum/internal/interface/http"
	"github.com/yanqian/docsum/pkg/logger"
)

func initializeApp() (*bootstrap.App, func(), error) {
	wire.Build(
		config.Load,
		logger.New,
		provideSummaryConfig,
		provideLanguageDetector,
		provideRepositories,
		provideDocumentRepository,
		provideRecordRepository,
		provideObjectStorage,
		provideJobQueue,
		provideExtractor,
		provideDocumentsConfig,
		provideDocumentService,
		provideAuthService,
		provideInboxWatcher,
		summarizer.NewService,
		wire.Bind(new(documents.Extractor), new(*extract.Registry)),
		wire.Bind(new(httpiface.DocumentService), new(*documents.Service)),
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil, nil
}
