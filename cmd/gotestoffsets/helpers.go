package main

import (
	"errors"
	"fmt"
	"math/rand"
	"net/url"
	"regexp"
	"time"
)

const httpProto = "http"

var (
	ErrInvalidScheme = errors.New("invalid URL scheme")
	ErrEmptyHost     = errors.New("empty host")
)

// validateURL validates the given URL and URL scheme.
func validateURL(rawURL string, protocol string) (*url.URL, error) {
	validURL, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}

	re := regexp.MustCompile(fmt.Sprintf("^%ss?$", protocol))

	if !re.MatchString(validURL.Scheme) {
		return nil, ErrInvalidScheme
	}

	if validURL.Host == "" {
		return nil, ErrEmptyHost
	}

	return validURL, nil
}

func validateLogFormat(logFormat string) error {
	if _, ok := logFormatsSet[logFormat]; !ok {
		return fmt.Errorf("invalid log format: %s", logFormat)
	}

	return nil
}

// newRand returns the random source of the fixtures and the seed it uses.
func newRand(seed int64) (*rand.Rand, int64) {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return rand.New(rand.NewSource(seed)), seed
}
