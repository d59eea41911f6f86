package cmd

import (
	"github.com/isometry/lambda-http-server/internal/config"
	"github.com/isometry/lambda-http-server/internal/helpers"
)

var envMapString = map[*string]boundEnvVar[string]{
	&config.Global.Logging.Format: {
		Name:        "log-format",
		Description: "Log format. Supported values are 'json', 'text' and 'dev'",
	},
}

var envMapBool = map[*bool]boundEnvVar[bool]{
	&config.Global.Logging.CallerTrace: {
		Name:        "verbosity-caller-trace",
		Description: "Enable caller trace in logs",
		Short:       helpers.Ptr("V"),
	},
}

var envMapCount = map[*int]boundEnvVar[int]{
	&config.Global.Logging.Verbosity: {
		Name:        "verbosity",
		Description: "Increase logger verbosity (default WarnLevel)",
		Short:       helpers.Ptr("v"),
		Count:       true,
	},
}
