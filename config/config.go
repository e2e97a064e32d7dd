package config

import (
	"runtime"

	"github.com/spf13/viper"
)

var (
	KeyIndent         = "output.indent"
	KeyFormat         = "output.format"
	KeyOutputDir      = "output.directory"
	KeyMode           = "build.mode"
	KeyJobs           = "batch.jobs"
	KeyProgress       = "batch.progress"
	KeyServeAddress   = "serve.address"
	KeyLogLevel       = "log.level"
	KeyLogFormat      = "log.format"
	KeyGPXExtensions  = "input.extensions"
	KeyMaxUploadBytes = "serve.max_upload_bytes"
)

// SetDefaults registers the defaults on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyIndent, DefaultIndent())
	v.SetDefault(KeyFormat, "json")
	v.SetDefault(KeyMode, "fail-fast")
	v.SetDefault(KeyJobs, DefaultJobs())
	v.SetDefault(KeyProgress, true)
	v.SetDefault(KeyServeAddress, ":8000")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "text")
	v.SetDefault(KeyGPXExtensions, GPXExtensions())
	v.SetDefault(KeyMaxUploadBytes, 32<<20)
}

func DefaultIndent() uint {
	return 2
}

func DefaultJobs() int {
	return runtime.NumCPU()
}

func GPXExtensions() []string {
	return []string{".gpx"}
}

func Indent() uint {
	return viper.GetUint(KeyIndent)
}

func Format() string {
	return viper.GetString(KeyFormat)
}

func HasOutputDirectory() bool {
	return viper.GetString(KeyOutputDir) != ""
}

func OutputDirectory() string {
	return viper.GetString(KeyOutputDir)
}

func Mode() string {
	return viper.GetString(KeyMode)
}

func Jobs() int {
	if n := viper.GetInt(KeyJobs); n > 0 {
		return n
	}
	return DefaultJobs()
}

func Progress() bool {
	return viper.GetBool(KeyProgress)
}

func ServeAddress() string {
	return viper.GetString(KeyServeAddress)
}

func MaxUploadBytes() int64 {
	return viper.GetInt64(KeyMaxUploadBytes)
}

func LogLevel() string {
	return viper.GetString(KeyLogLevel)
}

func LogFormat() string {
	return viper.GetString(KeyLogFormat)
}

func InputExtensions() []string {
	if exts := viper.GetStringSlice(KeyGPXExtensions); len(exts) > 0 {
		return exts
	}
	return GPXExtensions()
}
