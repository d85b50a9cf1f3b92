// Package conf contains the struct that holds the configuration of the software.
package conf

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/bluenviron/pngmeta/internal/conf/env"
	"github.com/bluenviron/pngmeta/internal/conf/yamlwrapper"
	"github.com/bluenviron/pngmeta/internal/logger"
)

// EnvPrefix is the prefix of environment variables that override the configuration.
const EnvPrefix = "PNGMETA"

func firstThatExists(paths []string) string {
	for _, pa := range paths {
		_, err := os.Stat(pa)
		if err == nil {
			return pa
		}
	}
	return ""
}

// Conf is a configuration.
type Conf struct {
	// General
	LogLevel        LogLevel        `json:"logLevel"`
	LogDestinations LogDestinations `json:"logDestinations"`
	LogStructured   bool            `json:"logStructured"`
	LogFile         string          `json:"logFile"`

	// Decoding
	MaxChunkSize StringSize `json:"maxChunkSize"`

	// Hooks
	RunOnWrite string `json:"runOnWrite"`
}

func (conf *Conf) setDefaults() {
	// General
	conf.LogLevel = LogLevel(logger.Info)
	conf.LogDestinations = LogDestinations{logger.DestinationStdout}
	conf.LogFile = "pngmeta.log"

	// Decoding
	conf.MaxChunkSize = 16 * 1024 * 1024
}

// Load loads a Conf.
// When fpath is empty, the first existing path of defaultConfPaths is used;
// if none exists, default values are used.
func Load(fpath string, defaultConfPaths []string) (*Conf, string, error) {
	conf := &Conf{}

	fpath, err := conf.loadFromFile(fpath, defaultConfPaths)
	if err != nil {
		return nil, "", err
	}

	err = env.Load(EnvPrefix, conf)
	if err != nil {
		return nil, "", err
	}

	err = conf.Validate()
	if err != nil {
		return nil, "", err
	}

	return conf, fpath, nil
}

func (conf *Conf) loadFromFile(fpath string, defaultConfPaths []string) (string, error) {
	conf.setDefaults()

	if fpath == "" {
		fpath = firstThatExists(defaultConfPaths)

		// when the configuration file is not explicitly set,
		// it is optional.
		if fpath == "" {
			return "", nil
		}
	}

	byts, err := os.ReadFile(fpath)
	if err != nil {
		return "", err
	}

	err = yamlwrapper.Unmarshal(byts, conf)
	if err != nil {
		return "", err
	}

	return fpath, nil
}

// Clone clones the configuration.
func (conf Conf) Clone() *Conf {
	enc, err := json.Marshal(conf)
	if err != nil {
		panic(err)
	}

	var dest Conf
	err = json.Unmarshal(enc, &dest)
	if err != nil {
		panic(err)
	}

	return &dest
}

// Validate checks the configuration for errors.
func (conf *Conf) Validate() error {
	// General

	if conf.LogDestinations.contains(logger.DestinationFile) && conf.LogFile == "" {
		return fmt.Errorf("'logFile' must be set when logging to file")
	}

	// Decoding

	if conf.MaxChunkSize == 0 {
		return fmt.Errorf("'maxChunkSize' must be greater than zero")
	}
	if conf.MaxChunkSize > math.MaxUint32 {
		return fmt.Errorf("'maxChunkSize' must be less than 4GB")
	}

	return nil
}
