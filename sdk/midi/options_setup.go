package midi

import (
	"github.com/leandrodaf/ewibreath/internal/logger"
	"github.com/leandrodaf/ewibreath/sdk/contracts"
)

const (
	defaultClientName = "EWI Breath Trainer"
	defaultPortName   = "Breath Input"
)

// applyDefaultOptions sets default values for ClientOptions if not explicitly provided.
//
// opts ...contracts.Option: A variadic list of option functions that can modify ClientOptions.
//
// Returns:
//   - contracts.ClientOptions: A structure containing the finalized client options with defaults applied.
//   - error: An error if the log destination could not be opened.
func applyDefaultOptions(opts ...contracts.Option) (contracts.ClientOptions, error) {
	options := &contracts.ClientOptions{}
	for _, opt := range opts {
		opt(options)
	}

	if options.Logger == nil {
		options.Logger = logger.NewZapLogger()
	}
	// InfoLevel is the zero value, so an unset level already means info.

	if options.DriverConfig == nil {
		options.DriverConfig = &contracts.DriverConfig{}
	}
	if options.DriverConfig.ClientName == "" {
		options.DriverConfig.ClientName = defaultClientName
	}
	if options.DriverConfig.PortName == "" {
		options.DriverConfig.PortName = defaultPortName
	}

	if options.LogFilePath != "" {
		if err := options.Logger.SetDestination(contracts.FileLog, options.LogFilePath); err != nil {
			return *options, err
		}
	}
	options.Logger.SetLevel(options.LogLevel)
	return *options, nil
}
