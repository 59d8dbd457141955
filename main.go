package main

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/carson-networks/ledger-server/api"
	"github.com/carson-networks/ledger-server/internal/classify"
	"github.com/carson-networks/ledger-server/internal/config"
	"github.com/carson-networks/ledger-server/internal/logging"
	"github.com/carson-networks/ledger-server/internal/operator"
	"github.com/carson-networks/ledger-server/internal/service"
	"github.com/carson-networks/ledger-server/internal/storage"
)

func main() {
	logger := logging.SetupLogging()
	logrus.Info("ledger-server starting")

	envConfig, err := config.ProcessEnvironmentVariables()
	if err != nil {
		logrus.WithError(err).Fatal("config.ProcessEnvironmentVariables")
		return
	}

	dbStorage, err := storage.NewStorage(context.Background(), envConfig)
	if err != nil {
		logrus.WithError(err).Fatal("storage.NewStorage")
		return
	}

	rules, err := classify.LoadRules(envConfig.RulesPath)
	if err != nil {
		logrus.WithError(err).Warn("classify.LoadRules.falling back to defaults")
		rules = nil
	}
	classifier := classify.NewClassifier(rules)

	// One worker. Import reconciliation relies on nothing else writing
	// between its read of the existing rows and its inserts.
	operatorDelegator := operator.NewOperatorDelegator(dbStorage)
	operatorDelegator.Start()

	svc := service.NewService(dbStorage, operatorDelegator, classifier, logger)

	wg := sync.WaitGroup{}
	wg.Add(1)

	go func() {
		httpRest := api.Rest{
			Logger:   logger,
			Port:     envConfig.ServerPort,
			Service:  svc,
			Operator: operatorDelegator,
		}
		httpRest.Serve()
	}()

	wg.Wait()
}
