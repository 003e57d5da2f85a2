package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Configuration holds all the options of the daemon. Every field can be set
// by flag or by environment variable, with the flag taking precedence. A
// .env file in the working directory is loaded first when present.
type Configuration struct {
	// Address to listen on
	ListenAddress string `validate:"required"`
	// TCP port to listen on
	Port int `validate:"required,min=1,max=65535"`
	// The directory served as the web root
	RootDir string `validate:"required,dir"`
	// File name appended for directory requests
	IndexFile string `validate:"required"`
	// Optional YAML file declaring dynamic pages
	PagesFile string `validate:"omitempty,file"`
	// Read timeout per connection in seconds, 0 disables
	ReadTimeout int `validate:"min=0"`
	// Write timeout per connection in seconds, 0 disables
	WriteTimeout int `validate:"min=0"`
	// Cap on request line plus headers in bytes, 0 for the built-in default
	MaxHeaderBytes int `validate:"min=0"`
	// EnableGzip compresses compressible responses for clients that accept it
	EnableGzip bool
	// EnableDebug logs one line per served request
	EnableDebug bool
	// LogLevel error/info/warning/debug/none
	LogLevel string `validate:"oneof=error info warning debug none"`
	// Host and port for prometheus listener, e.g. localhost:2112
	PromHostAndPort string
	// The number of the profiling port
	ProfilingPort string
	// Profiling type block/cpu/trace/mem, used together with profilingPort
	Profiling string `validate:"omitempty,oneof=block cpu trace mem"`
}

// NewConfiguration will return a *Configuration with defaults, .env,
// environment variables and flags applied, in that order.
func NewConfiguration() *Configuration {
	c := newConfigurationDefaults()

	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			log.Printf("error: loading .env file: %v\n", err)
		}
	}

	flag.StringVar(&c.ListenAddress, "listenAddress", CheckEnv("LISTEN_ADDRESS", c.ListenAddress).(string), "address to listen on")
	flag.IntVar(&c.Port, "port", CheckEnv("PORT", c.Port).(int), "TCP port to listen on")
	flag.StringVar(&c.RootDir, "rootDir", CheckEnv("ROOT_DIR", c.RootDir).(string), "the directory served as the web root")
	flag.StringVar(&c.IndexFile, "indexFile", CheckEnv("INDEX_FILE", c.IndexFile).(string), "file name appended for directory requests")
	flag.StringVar(&c.PagesFile, "pagesFile", CheckEnv("PAGES_FILE", c.PagesFile).(string), "YAML file declaring dynamic pages. No value means no dynamic pages, which is default")
	flag.IntVar(&c.ReadTimeout, "readTimeout", CheckEnv("READ_TIMEOUT", c.ReadTimeout).(int), "read timeout per connection in seconds, 0 disables")
	flag.IntVar(&c.WriteTimeout, "writeTimeout", CheckEnv("WRITE_TIMEOUT", c.WriteTimeout).(int), "write timeout per connection in seconds, 0 disables")
	flag.IntVar(&c.MaxHeaderBytes, "maxHeaderBytes", CheckEnv("MAX_HEADER_BYTES", c.MaxHeaderBytes).(int), "cap on request line plus headers in bytes, 0 for the built-in default")
	flag.BoolVar(&c.EnableGzip, "enableGzip", CheckEnv("ENABLE_GZIP", c.EnableGzip).(bool), "true/false, compress compressible responses for clients that accept gzip")
	flag.BoolVar(&c.EnableDebug, "enableDebug", CheckEnv("ENABLE_DEBUG", c.EnableDebug).(bool), "true/false, log one line per served request")
	flag.StringVar(&c.LogLevel, "logLevel", CheckEnv("LOG_LEVEL", c.LogLevel).(string), "error/info/warning/debug/none")
	flag.StringVar(&c.PromHostAndPort, "promHostAndPort", CheckEnv("PROM_HOST_AND_PORT", c.PromHostAndPort).(string), "host and port for prometheus listener, e.g. localhost:2112. No value means not to start the listener, which is default")
	flag.StringVar(&c.ProfilingPort, "profilingPort", CheckEnv("PROFILING_PORT", c.ProfilingPort).(string), "the number of the profiling port")
	flag.StringVar(&c.Profiling, "profiling", CheckEnv("PROFILING", c.Profiling).(string), "profiling type block/cpu/trace/mem, used together with profilingPort")

	flag.Parse()

	return &c
}

// Get a Configuration struct with the default values set.
func newConfigurationDefaults() Configuration {
	c := Configuration{
		ListenAddress:   "127.0.0.1",
		Port:            8080,
		RootDir:         ".",
		IndexFile:       "index.html",
		PagesFile:       "",
		ReadTimeout:     30,
		WriteTimeout:    30,
		MaxHeaderBytes:  8192,
		EnableGzip:      false,
		EnableDebug:     false,
		LogLevel:        "info",
		PromHostAndPort: "",
		ProfilingPort:   "",
		Profiling:       "",
	}
	return c
}

// Check validates the configuration after flags have been parsed.
func (c *Configuration) Check() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("configuration: %w", err)
	}
	return nil
}

func CheckEnv[T any](key string, v T) any {
	val, ok := os.LookupEnv(key)
	if !ok {
		return v
	}

	switch any(v).(type) {
	case int:
		n, err := strconv.Atoi(val)
		if err != nil {
			log.Fatalf("error: failed to convert env %v to int: %v\n", key, err)
		}
		return n
	case string:
		return val
	case bool:
		b, err := strconv.ParseBool(val)
		if err != nil {
			log.Fatalf("error: failed to convert env %v to bool: %v\n", key, err)
		}
		return b
	default:
		return v
	}
}
