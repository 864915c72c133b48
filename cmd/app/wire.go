//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/yanqian/geoscore/internal/bootstrap"
	"github.com/yanqian/geoscore/internal/domain/geoscore"
	"github.com/yanqian/geoscore/internal/infra/config"
	httpiface "github.com/yanqian/geoscore/internal/interface/http"
	"github.com/yanqian/geoscore/pkg/logger"
)

func initializeApp() (*bootstrap.App, func(), error) {
	wire.Build(
		config.Load,
		logger.New,
		provideScoringConfig,
		provideLocationStore,
		provideObjectStorage,
		provideSnapshotArchiver,
		provideArchiveQueue,
		geoscore.NewService,
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil, nil
}
