// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

// dotEnvFile is read from the working directory before POTOOL_* variables.
const dotEnvFile = ".env"

var (
	errExpectedPointerToStruct = errors.New("expected a pointer to a struct")
	errUnsupportedFieldType    = errors.New("unsupported field type")
)

// readEnv fills the env-tagged fields of target, a pointer to a struct, from
// the environment. Untagged struct fields are descended into.
//
// Tags take the form `env:"NAME"` or `env:"NAME,overwrite"`. Without
// overwrite, a field that already holds a non-zero value keeps it.
func readEnv(target any) error {
	ptr := reflect.ValueOf(target)
	if ptr.Kind() != reflect.Pointer || ptr.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("%w, got %T", errExpectedPointerToStruct, target)
	}

	structValue := ptr.Elem()
	structType := structValue.Type()

	for i := range structValue.NumField() {
		field := structValue.Field(i)
		fieldType := structType.Field(i)

		if !field.CanSet() {
			continue
		}

		tag, tagged := fieldType.Tag.Lookup("env")
		if !tagged {
			if field.Kind() == reflect.Struct {
				if err := readEnv(field.Addr().Interface()); err != nil {
					return err
				}
			}

			continue
		}

		name, opts, _ := strings.Cut(tag, ",")

		value, ok := os.LookupEnv(name)
		if !ok {
			continue
		}

		if !slices.Contains(strings.Split(opts, ","), "overwrite") && !field.IsZero() {
			continue
		}

		if err := setField(field, value); err != nil {
			return fmt.Errorf("%s (%s=%q): %w", fieldType.Name, name, value, err)
		}
	}

	return nil
}

// setField parses value into field. Slices are comma-separated with blank
// items dropped.
func setField(field reflect.Value, value string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(strings.TrimSpace(value), 10, field.Type().Bits())
		if err != nil {
			return err
		}

		field.SetInt(n)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(strings.TrimSpace(value), field.Type().Bits())
		if err != nil {
			return err
		}

		field.SetFloat(f)
	case reflect.Bool:
		b, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return err
		}

		field.SetBool(b)
	case reflect.Slice:
		if field.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("%w: %s", errUnsupportedFieldType, field.Type())
		}

		items := []string{}

		for item := range strings.SplitSeq(value, ",") {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}

		field.Set(reflect.ValueOf(items))
	default:
		return fmt.Errorf("%w: %s", errUnsupportedFieldType, field.Kind())
	}

	return nil
}

// useDotEnv exports the variables of ./.env that are not already set. A
// missing file is not an error.
func useDotEnv() error {
	data, err := os.ReadFile(dotEnvFile)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}

	if err != nil {
		return err
	}

	vars, bad := parseDotEnv(string(data))

	for _, line := range bad {
		log.Warn().Str("path", dotEnvFile).Int("line", line).Msg("Ignoring malformed .env line")
	}

	for _, kv := range vars {
		if _, set := os.LookupEnv(kv[0]); set {
			continue
		}

		if err := os.Setenv(kv[0], kv[1]); err != nil {
			return fmt.Errorf("setting %s: %w", kv[0], err)
		}
	}

	log.Debug().Str("path", dotEnvFile).Int("vars", len(vars)).Msg("Loaded .env file")

	return nil
}

// parseDotEnv returns the KEY=VALUE pairs of a .env file in order, and the
// 1-based numbers of lines that are neither blank, comments nor pairs.
// Values may be wrapped in matching single or double quotes.
func parseDotEnv(data string) (vars [][2]string, bad []int) {
	lineNo := 0

	for raw := range strings.Lines(data) {
		lineNo++

		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		line = strings.TrimPrefix(line, "export ")

		key, value, ok := strings.Cut(line, "=")
		key = strings.TrimSpace(key)

		if !ok || key == "" {
			bad = append(bad, lineNo)

			continue
		}

		value = strings.TrimSpace(value)
		if len(value) >= 2 && value[0] == value[len(value)-1] && (value[0] == '"' || value[0] == '\'') {
			value = value[1 : len(value)-1]
		}

		vars = append(vars, [2]string{key, value})
	}

	return vars, bad
}
