package commands

import (
	"github.com/spf13/viper"

	"github.com/cognitedata-community/cognite-sdk-go/internal/logging"
	"github.com/cognitedata-community/cognite-sdk-go/pkg/cognite"
	"github.com/cognitedata-community/cognite-sdk-go/pkg/cogniteclient"
)

// createClient resolves a cognite.Client from the environment, optionally
// overridden by the --config YAML file, mirroring the teacher CLI's
// createClient helper.
func createClient(appName string) (*cognite.Client, error) {
	return cogniteclient.New(cogniteclient.Options{
		AppName:    appName,
		ConfigFile: viper.GetString("config"),
		Logger:     logging.New("cognitectl", true),
		Debug:      viper.GetBool("verbose"),
	})
}
