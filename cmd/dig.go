package cmd

import (
	"go.uber.org/dig"

	"github.com/persn/CentralisedPackageConverter/application"
	"github.com/persn/CentralisedPackageConverter/infrastructure/manifest"
	"github.com/persn/CentralisedPackageConverter/infrastructure/paket"
	"github.com/persn/CentralisedPackageConverter/infrastructure/project"
	"github.com/persn/CentralisedPackageConverter/infrastructure/scanner"
)

// registerProviders registers all constructors with the DIG container.
func registerProviders(container *dig.Container) error {
	constructors := []interface{}{
		scanner.NewScanner,
		paket.NewMigrator,
		paket.NewInjector,
		project.NewExtractor,
		project.NewReverter,
		manifest.NewWriter,
		manifest.NewReader,
		application.NewConvertService,
		application.NewRevertService,
	}
	for _, constructor := range constructors {
		if err := container.Provide(constructor); err != nil {
			return err
		}
	}
	return nil
}

func injectConvertService() *application.ConvertService {
	container := dig.New()

	if err := registerProviders(container); err != nil {
		panic(err)
	}

	var service *application.ConvertService
	if err := container.Invoke(func(s *application.ConvertService) {
		service = s
	}); err != nil {
		panic(err)
	}

	return service
}

func injectRevertService() *application.RevertService {
	container := dig.New()

	if err := registerProviders(container); err != nil {
		panic(err)
	}

	var service *application.RevertService
	if err := container.Invoke(func(s *application.RevertService) {
		service = s
	}); err != nil {
		panic(err)
	}

	return service
}
