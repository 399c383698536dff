// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"
	"sync"
	"time"

	"dario.cat/mergo"
	"github.com/go-viper/mapstructure/v2"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/spf13/cast"

	"rivaas.dev/edge/config/codec"
	"rivaas.dev/edge/config/source"
)

// Source is anything settings can be loaded from.
type Source interface {
	// Load returns the settings held by the source. Keys may use any case.
	Load(ctx context.Context) (map[string]any, error)
}

// Validator is implemented by binding targets that check their own values.
type Validator interface {
	Validate() error
}

// Option configures a Config.
type Option func(c *Config) error

// Config loads settings from an ordered list of sources. Later sources
// override earlier ones key by key. Config is safe for concurrent use.
type Config struct {
	mu         sync.RWMutex
	values     map[string]any
	sources    []Source
	binding    any
	schema     *jsonschema.Schema
	validators []func(map[string]any) error
}

// WithSource appends a custom source.
func WithSource(src Source) Option {
	return func(c *Config) error {
		if src == nil {
			return errors.New("source cannot be nil")
		}
		c.sources = append(c.sources, src)
		return nil
	}
}

// WithFile appends a file source. The format is detected from the extension
// (.yaml, .yml, .json, .toml) and ${VAR} references in path are expanded.
func WithFile(path string) Option {
	return func(c *Config) error {
		path = os.ExpandEnv(path)

		format, err := detectFormat(path)
		if err != nil {
			return NewError("file-source", "detect-format", err)
		}
		return withFileAs(c, path, format)
	}
}

// WithFileAs appends a file source with an explicit format.
func WithFileAs(path string, format codec.Type) Option {
	return func(c *Config) error {
		return withFileAs(c, os.ExpandEnv(path), format)
	}
}

func withFileAs(c *Config, path string, format codec.Type) error {
	decoder, err := codec.GetDecoder(format)
	if err != nil {
		return NewError("file-source", "get-decoder", err)
	}
	c.sources = append(c.sources, source.NewFile(path, decoder))
	return nil
}

// WithContent appends a source that decodes data, typically a document
// embedded with go:embed.
//
// Example:
//
//	//go:embed edge.yaml
//	var settings []byte
//
//	cfg := config.MustNew(config.WithContent(settings, codec.TypeYAML))
func WithContent(data []byte, format codec.Type) Option {
	return func(c *Config) error {
		decoder, err := codec.GetDecoder(format)
		if err != nil {
			return NewError("content-source", "get-decoder", err)
		}
		c.sources = append(c.sources, source.NewFileContent(data, decoder))
		return nil
	}
}

// WithEnv appends a source for environment variables starting with prefix.
// EDGE_SERVER_ADDR with prefix "EDGE_" sets "server.addr".
func WithEnv(prefix string) Option {
	return func(c *Config) error {
		c.sources = append(c.sources, source.NewOSEnvVar(prefix))
		return nil
	}
}

// WithConsul appends a Consul KV source for the document at path. The format
// is detected from the key's extension.
//
// The option is skipped when CONSUL_HTTP_ADDR is unset, so the same wiring
// works on a laptop without Consul.
func WithConsul(path string) Option {
	return func(c *Config) error {
		if os.Getenv("CONSUL_HTTP_ADDR") == "" {
			return nil
		}

		path = os.ExpandEnv(path)
		format, err := detectFormat(path)
		if err != nil {
			return NewError("consul-source", "detect-format", err)
		}
		decoder, err := codec.GetDecoder(format)
		if err != nil {
			return NewError("consul-source", "get-decoder", err)
		}
		src, err := source.NewConsul(path, decoder, nil)
		if err != nil {
			return NewError("consul-source", "create-client", err)
		}
		c.sources = append(c.sources, src)
		return nil
	}
}

// WithBinding decodes the merged settings into v on every Load. v must be a
// pointer to a struct; fields are matched by their `config` tag and zero
// fields are filled from their `default` tag. If v implements [Validator] it
// is validated before being updated.
func WithBinding(v any) Option {
	return func(c *Config) error {
		if v == nil {
			return errors.New("binding target cannot be nil")
		}
		rv := reflect.ValueOf(v)
		if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Struct {
			return errors.New("binding target must be a pointer to a struct")
		}
		c.binding = v
		return nil
	}
}

// WithJSONSchema validates the merged settings against schema on every Load.
func WithJSONSchema(schema []byte) Option {
	return func(c *Config) error {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schema))
		if err != nil {
			return NewError("json-schema", "parse", err)
		}

		const url = "mem://edge/settings.schema.json"
		compiler := jsonschema.NewCompiler()
		if err = compiler.AddResource(url, doc); err != nil {
			return NewError("json-schema", "add-resource", err)
		}
		compiled, err := compiler.Compile(url)
		if err != nil {
			return NewError("json-schema", "compile", err)
		}
		c.schema = compiled
		return nil
	}
}

// WithValidator adds a check run against the merged settings on every Load.
func WithValidator(fn func(map[string]any) error) Option {
	return func(c *Config) error {
		if fn == nil {
			return errors.New("validator cannot be nil")
		}
		c.validators = append(c.validators, fn)
		return nil
	}
}

// New returns a Config with every option applied. Errors from all options
// are joined and returned together.
func New(options ...Option) (*Config, error) {
	c := &Config{values: map[string]any{}}

	var errs error
	for _, option := range options {
		if option == nil {
			continue
		}
		errs = errors.Join(errs, option(c))
	}
	if errs != nil {
		return nil, errs
	}
	return c, nil
}

// MustNew is like [New] but panics on error.
func MustNew(options ...Option) *Config {
	c, err := New(options...)
	if err != nil {
		panic(fmt.Sprintf("config: failed to create config: %v", err))
	}
	return c
}

// Load reads every source, merges, validates and binds the result. The
// stored values and the binding target are only replaced when every step
// succeeds.
//
// Errors:
//   - [*Error] with Operation "load" or "merge" if a source fails
//   - [*Error] from "json-schema" or "custom-validator[i]" if validation fails
//   - [*Error] from "binding" if decoding or [Validator.Validate] fails
func (c *Config) Load(ctx context.Context) error {
	if ctx == nil {
		return errors.New("context cannot be nil")
	}

	values := make(map[string]any)
	for i, src := range c.sources {
		if err := ctx.Err(); err != nil {
			return err
		}

		conf, err := src.Load(ctx)
		if err != nil {
			return NewError(sourceName(i, src), "load", err)
		}
		if err = mergo.Map(&values, lowerKeys(conf), mergo.WithOverride); err != nil {
			return NewError(sourceName(i, src), "merge", err)
		}
	}

	if c.schema != nil {
		if err := c.schema.Validate(values); err != nil {
			return NewError("json-schema", "validate", err)
		}
	}

	for i, fn := range c.validators {
		if err := fn(values); err != nil {
			return NewError(fmt.Sprintf("custom-validator[%d]", i), "validate", err)
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.binding != nil {
		target := reflect.New(reflect.TypeOf(c.binding).Elem())
		if err := decode(values, target.Interface()); err != nil {
			return NewError("binding", "bind", err)
		}
		if v, ok := target.Interface().(Validator); ok {
			if err := v.Validate(); err != nil {
				return NewError("binding", "validate", err)
			}
		}
		reflect.ValueOf(c.binding).Elem().Set(target.Elem())
	}

	c.values = values
	return nil
}

// MustLoad is like [Config.Load] but panics on error.
func (c *Config) MustLoad(ctx context.Context) {
	if err := c.Load(ctx); err != nil {
		panic(fmt.Sprintf("config: failed to load: %v", err))
	}
}

// Values returns a copy of the merged settings from the last successful Load.
func (c *Config) Values() map[string]any {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[string]any, len(c.values))
	for k, v := range c.values {
		out[k] = v
	}
	return out
}

// Get returns the value at a dot-separated, case-insensitive key such as
// "server.addr", or nil.
func (c *Config) Get(key string) any {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var current any = c.values
	for _, segment := range strings.Split(strings.ToLower(key), ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return nil
		}
		if current, ok = m[segment]; !ok {
			return nil
		}
	}
	return current
}

// String returns the value at key converted to a string, or "".
func (c *Config) String(key string) string {
	return cast.ToString(c.Get(key))
}

func decode(values map[string]any, target any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "config",
		Squash:           true,
		WeaklyTypedInput: true,
		Result:           target,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return fmt.Errorf("failed to create decoder: %w", err)
	}
	if err = decoder.Decode(values); err != nil {
		return fmt.Errorf("failed to decode configuration: %w", err)
	}
	if err = applyDefaults(reflect.ValueOf(target).Elem()); err != nil {
		return fmt.Errorf("failed to apply defaults: %w", err)
	}
	return nil
}

// applyDefaults fills zero-valued fields from their `default` tag, recursing
// into nested structs.
func applyDefaults(val reflect.Value) error {
	typ := val.Type()
	for i := 0; i < val.NumField(); i++ {
		field := val.Field(i)
		if !field.CanSet() {
			continue
		}
		if field.Kind() == reflect.Struct {
			if err := applyDefaults(field); err != nil {
				return err
			}
			continue
		}

		def, ok := typ.Field(i).Tag.Lookup("default")
		if !ok || !field.IsZero() {
			continue
		}
		if err := setDefault(field, def); err != nil {
			return fmt.Errorf("field %s: %w", typ.Field(i).Name, err)
		}
	}
	return nil
}

func setDefault(field reflect.Value, def string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(def)
	case reflect.Bool:
		b, err := cast.ToBoolE(def)
		if err != nil {
			return err
		}
		field.SetBool(b)
	case reflect.Int64:
		if field.Type() != reflect.TypeOf(time.Duration(0)) {
			n, err := cast.ToInt64E(def)
			if err != nil {
				return err
			}
			field.SetInt(n)
			return nil
		}
		d, err := time.ParseDuration(def)
		if err != nil {
			return err
		}
		field.SetInt(int64(d))
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32:
		n, err := cast.ToInt64E(def)
		if err != nil {
			return err
		}
		field.SetInt(n)
	default:
		return fmt.Errorf("unsupported type for default tag: %s", field.Kind())
	}
	return nil
}

// lowerKeys copies m with every key lower-cased so sources merge
// case-insensitively.
func lowerKeys(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		if nested, ok := v.(map[string]any); ok {
			v = lowerKeys(nested)
		}
		out[strings.ToLower(k)] = v
	}
	return out
}

func sourceName(i int, src Source) string {
	if s, ok := src.(fmt.Stringer); ok {
		return fmt.Sprintf("source[%d] %s", i, s)
	}
	return fmt.Sprintf("source[%d]", i)
}
