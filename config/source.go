package config

// Source indicates where a configuration value came from.
type Source string

// Configuration sources.
const (
	SourceDefault Source = "default"
	SourceGlobal  Source = "global"
	SourceLocal   Source = "local"
	SourceEnv     Source = "env"
	SourceFlag    Source = "flag"
)

// Keys understood by Load.
const (
	KeyURL          = "url"
	KeyToken        = "token"
	KeyTimeout      = "timeout"
	KeyMaxRetries   = "max_retries"
	KeyRetryWaitMin = "retry_wait_min"
	KeyRetryWaitMax = "retry_wait_max"
	KeyRetryJitter  = "retry_jitter"
	KeyUserAgent    = "user_agent"
)

// AllKeys lists every key in resolution order.
var AllKeys = []string{
	KeyURL,
	KeyToken,
	KeyTimeout,
	KeyMaxRetries,
	KeyRetryWaitMin,
	KeyRetryWaitMax,
	KeyRetryJitter,
	KeyUserAgent,
}

// LocalKeys lists the keys a repo-local file may set.
var LocalKeys = []string{
	KeyURL,
	KeyTimeout,
	KeyMaxRetries,
	KeyRetryWaitMin,
	KeyRetryWaitMax,
	KeyRetryJitter,
	KeyUserAgent,
}
