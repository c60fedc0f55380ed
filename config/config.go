package config

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/remiges-tech/rigel"
	"github.com/remiges-tech/rigel/etcd"
	clientv3 "go.etcd.io/etcd/client/v3"
)

// Config is a source from which application configuration can be loaded.
type Config interface {
	LoadConfig(c any) error
	Check() error
}

// Load first ensures that the config source is valid and accessible. Then it
// loads the config into c. Fields the source does not mention keep their
// current values, so c can be pre-filled with defaults.
func Load(cs Config, c any) error {
	if err := cs.Check(); err != nil {
		return err
	}
	return cs.LoadConfig(c)
}

// Env

// Env loads configuration from environment variables named by `env` tags.
type Env struct {
	// Prefix is prepended to every variable name.
	Prefix string
}

func (e *Env) Check() error {
	return nil
}

func (e *Env) LoadConfig(c any) error {
	if err := env.ParseWithOptions(c, env.Options{Prefix: e.Prefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// File

// File loads configuration from a JSON file.
type File struct {
	ConfigFilePath string
}

func (f *File) Check() error {
	if f.ConfigFilePath == "" {
		return fmt.Errorf("configFilePath cannot be empty")
	}
	return nil
}

func (f *File) LoadConfig(appConfig any) error {
	file, err := os.Open(f.ConfigFilePath)
	if err != nil {
		return err
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(appConfig); err != nil {
		return fmt.Errorf("decode %s: %w", f.ConfigFilePath, err)
	}
	return nil
}

// Rigel

// KeyGetter is the part of the Rigel client used here.
type KeyGetter interface {
	Get(ctx context.Context, key string) (string, error)
}

// Rigel loads configuration from a Rigel config. Each string, bool or integer
// field is read from the key named by its `json` tag; fields tagged "-" or
// without a json tag are skipped. Keys Rigel has no value for leave the field
// unchanged, but a config in which no key can be read is an error.
type Rigel struct {
	Client  KeyGetter
	Timeout time.Duration
}

// NewRigel connects to etcd and returns a source for the given Rigel schema
// and config.
func NewRigel(etcdEndpoints []string, app, module string, version int, configName string) (*Rigel, error) {
	cli, err := clientv3.New(clientv3.Config{
		Endpoints:   etcdEndpoints,
		DialTimeout: 5 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create etcd client: %w", err)
	}
	etcdStorage := &etcd.EtcdStorage{Client: cli}
	return &Rigel{
		Client:  rigel.New(etcdStorage, app, module, version, configName),
		Timeout: 5 * time.Second,
	}, nil
}

func (r *Rigel) Check() error {
	if r.Client == nil {
		return fmt.Errorf("rigel client cannot be nil")
	}
	return nil
}

// KeyNotFoundError is returned when Rigel has no value for a key.
type KeyNotFoundError struct {
	Key string
	Err error
}

func (e *KeyNotFoundError) Error() string {
	return fmt.Sprintf("key %s not found in config: %v", e.Key, e.Err)
}

func (e *KeyNotFoundError) Unwrap() error {
	return e.Err
}

// InvalidValueError is returned when a value cannot be converted to the
// field's type.
type InvalidValueError struct {
	Key   string
	Value string
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("invalid value for key %s: %q", e.Key, e.Value)
}

func (r *Rigel) LoadConfig(c any) error {
	v := reflect.ValueOf(c)
	if v.Kind() != reflect.Pointer || v.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("config target must be a pointer to a struct, got %T", c)
	}
	v = v.Elem()

	timeout := r.Timeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var (
		loaded   int
		firstErr error
	)
	for i := 0; i < v.NumField(); i++ {
		field := v.Type().Field(i)
		key, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if key == "" || key == "-" || !field.IsExported() {
			continue
		}

		raw, err := r.Client.Get(ctx, key)
		if err != nil {
			if firstErr == nil {
				firstErr = &KeyNotFoundError{Key: key, Err: err}
			}
			continue
		}
		if err := setField(v.Field(i), raw); err != nil {
			return &InvalidValueError{Key: key, Value: raw}
		}
		loaded++
	}
	if loaded == 0 && firstErr != nil {
		return firstErr
	}
	return nil
}

func setField(f reflect.Value, raw string) error {
	switch f.Kind() {
	case reflect.String:
		f.SetString(raw)
	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return err
		}
		f.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, f.Type().Bits())
		if err != nil {
			return err
		}
		f.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(raw, 10, f.Type().Bits())
		if err != nil {
			return err
		}
		f.SetUint(n)
	default:
		return fmt.Errorf("unsupported field kind %s", f.Kind())
	}
	return nil
}
