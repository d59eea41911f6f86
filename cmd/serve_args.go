package cmd

import (
	"time"

	"github.com/isometry/lambda-http-server/internal/config"
	"github.com/isometry/lambda-http-server/internal/helpers"
)

var svcEnvMapString = map[*string]boundEnvVar[string]{
	&config.Service.Host: {
		Name:        "host",
		Description: "The address to listen on",
		Env:         helpers.Ptr("HOST"),
	},
	&config.Service.Handler: {
		Name:        "handler",
		Description: "The registered handler to serve, as module.function",
		Env:         helpers.Ptr("HANDLER"),
	},
	&config.Function.Name: {
		Name:        "function-name",
		Description: "The function name reported to the handler",
	},
	&config.Function.Version: {
		Name:        "function-version",
		Description: "The function version reported to the handler",
	},
	&config.Function.Region: {
		Name:        "function-region",
		Description: "The region used in the function ARN and AWS_REGION",
	},
	&config.Function.AccountID: {
		Name:        "function-account-id",
		Description: "The account id used in the function ARN and request context",
	},
	&config.Capture.Bucket: {
		Name:        "capture-bucket",
		Description: "The S3 bucket receiving captured invocations",
		Env:         helpers.Ptr("CAPTURE_S3_BUCKET"),
	},
	&config.Capture.Prefix: {
		Name:        "capture-prefix",
		Description: "The key prefix of captured invocations",
	},
	&config.AWS.Region: {
		Name:        "aws-region",
		Description: "The region of the AWS clients (default from the SDK configuration)",
		Hidden:      true,
	},
	&config.AWS.Endpoint: {
		Name:        "aws-endpoint",
		Description: "Send AWS requests to this endpoint, e.g. http://localhost:4566",
		Env:         helpers.Ptr("AWS_ENDPOINT_URL"),
	},
}

var svcEnvMapInt = map[*int]boundEnvVar[int]{
	&config.Service.Port: {
		Name:        "port",
		Description: "The port to listen on",
		Short:       helpers.Ptr("p"),
		Env:         helpers.Ptr("PORT"),
	},
	&config.Function.MemoryLimitInMB: {
		Name:        "function-memory",
		Description: "The memory limit in MB reported to the handler",
	},
}

var svcEnvMapBool = map[*bool]boundEnvVar[bool]{
	&config.Service.Rethrow: {
		Name:        "rethrow",
		Description: "Re-raise handler errors after sending the 500 response",
	},
	&config.Service.DumpEvents: {
		Name:        "dump-events",
		Description: "Print every event and context before invocation",
	},
	&config.Capture.Enabled: {
		Name:        "capture",
		Description: "Upload every invocation to S3",
		Env:         helpers.Ptr("CAPTURE_S3"),
	},
}

var svcEnvMapDuration = map[*time.Duration]boundEnvVar[time.Duration]{
	&config.Service.ReadHeaderTimeout: {
		Name:        "read-header-timeout",
		Description: "The time allowed to read request headers",
	},
	&config.Service.WriteTimeout: {
		Name:        "write-timeout",
		Description: "The time allowed to write a response, 0 for no limit",
	},
	&config.Service.ShutdownTimeout: {
		Name:        "shutdown-timeout",
		Description: "The grace period for in-flight requests on shutdown",
	},
}

var svcEnvMapStringSlice = map[*[]string]boundEnvVar[[]string]{
	&config.Environment.Files: {
		Name:        "env-file",
		Description: "Dotenv file loaded into the handler environment, may be repeated",
		Short:       helpers.Ptr("e"),
	},
}

var svcEnvMapStringMap = map[*map[string]string]boundEnvVar[map[string]string]{
	&config.Environment.SSM: {
		Name:        "env-ssm",
		Description: "NAME=parameter pairs resolved from SSM Parameter Store into the handler environment",
	},
}
