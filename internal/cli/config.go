package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/timelog/internal/export"
	"github.com/mesh-intelligence/timelog/internal/paths"
	"github.com/mesh-intelligence/timelog/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
)

// Config keys. Export keys double as flag bindings, so a flag set on the
// command line overrides config.yaml, which overrides the defaults.
const (
	cfgKeyBackend        = "backend"
	cfgKeyDataDir        = "data_dir"
	cfgKeyLogLevel       = "log_level"
	cfgKeyColumns        = "export.columns"
	cfgKeyDelimiter      = "export.delimiter"
	cfgKeyQualifier      = "export.qualifier"
	cfgKeyLineTerminator = "export.line_terminator"
	cfgKeyEmptyValues    = "export.empty_values"
	cfgKeyNewlines       = "export.newlines"
	cfgKeyBooleans       = "export.booleans"
	cfgKeyAttributes     = "export.include_attributes"
	cfgKeyExcludeHeaders = "export.exclude_headers"
	cfgKeyEncoding       = "export.encoding"
	cfgKeyPreviewLimit   = "export.preview_limit"
)

// configFile is the layout of config.yaml.
type configFile struct {
	Backend  string        `yaml:"backend"`
	DataDir  string        `yaml:"data_dir,omitempty"`
	LogLevel string        `yaml:"log_level,omitempty"`
	Export   exportSection `yaml:"export"`
}

type exportSection struct {
	Columns           []string `yaml:"columns"`
	Delimiter         string   `yaml:"delimiter"`
	Qualifier         string   `yaml:"qualifier"`
	LineTerminator    string   `yaml:"line_terminator"`
	EmptyValues       string   `yaml:"empty_values"`
	Newlines          string   `yaml:"newlines"`
	Booleans          string   `yaml:"booleans"`
	IncludeAttributes bool     `yaml:"include_attributes"`
	ExcludeHeaders    bool     `yaml:"exclude_headers"`
	Encoding          string   `yaml:"encoding"`
	PreviewLimit      int      `yaml:"preview_limit"`
}

// defaultConfig is written by init and mirrors the built-in defaults.
func defaultConfig(dataDir string) configFile {
	opts := types.DefaultExportOptions()
	return configFile{
		Backend: types.BackendSQLite,
		DataDir: dataDir,
		Export: exportSection{
			Columns:        export.DefaultColumns,
			Delimiter:      "comma",
			Qualifier:      "double",
			LineTerminator: string(opts.LineTerminator),
			EmptyValues:    string(opts.EmptyValues),
			Newlines:       string(opts.Newlines),
			Booleans:       string(opts.Booleans),
			Encoding:       opts.Encoding,
			PreviewLimit:   opts.PreviewLimit,
		},
	}
}

// setDefaults registers the built-in values viper falls back to.
func setDefaults(v *viper.Viper) {
	def := defaultConfig("").Export
	v.SetDefault(cfgKeyBackend, types.BackendSQLite)
	v.SetDefault(cfgKeyColumns, def.Columns)
	v.SetDefault(cfgKeyDelimiter, def.Delimiter)
	v.SetDefault(cfgKeyQualifier, def.Qualifier)
	v.SetDefault(cfgKeyLineTerminator, def.LineTerminator)
	v.SetDefault(cfgKeyEmptyValues, def.EmptyValues)
	v.SetDefault(cfgKeyNewlines, def.Newlines)
	v.SetDefault(cfgKeyBooleans, def.Booleans)
	v.SetDefault(cfgKeyAttributes, def.IncludeAttributes)
	v.SetDefault(cfgKeyExcludeHeaders, def.ExcludeHeaders)
	v.SetDefault(cfgKeyEncoding, def.Encoding)
	v.SetDefault(cfgKeyPreviewLimit, def.PreviewLimit)
}

// loadConfig reads config.yaml from configDir. A missing file is not an
// error; the defaults apply.
func loadConfig(configDir string) (*viper.Viper, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

// writeConfigIfMissing creates config.yaml with default values unless it
// already exists. It reports whether a file was written.
func writeConfigIfMissing(path, dataDir string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("stat config file: %w", err)
	}

	cfg := defaultConfig(dataDir)
	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return false, fmt.Errorf("marshal config: %w", err)
	}
	header := "# timelog configuration. Command-line flags override these values.\n"
	if err := os.WriteFile(path, append([]byte(header), data...), 0o644); err != nil {
		return false, err
	}
	return true, nil
}

// exportFlagKeys pairs each export flag with its config key.
var exportFlagKeys = []struct{ flag, key string }{
	{"columns", cfgKeyColumns},
	{"delimiter", cfgKeyDelimiter},
	{"qualifier", cfgKeyQualifier},
	{"line-terminator", cfgKeyLineTerminator},
	{"empty-values", cfgKeyEmptyValues},
	{"newlines", cfgKeyNewlines},
	{"booleans", cfgKeyBooleans},
	{"attributes", cfgKeyAttributes},
	{"exclude-headers", cfgKeyExcludeHeaders},
	{"encoding", cfgKeyEncoding},
	{"limit", cfgKeyPreviewLimit},
}

// addExportFlags registers the flags shared by export and preview. Their
// defaults are empty so config.yaml applies unless a flag is given.
func addExportFlags(fs *pflag.FlagSet) {
	fs.StringSlice("columns", nil, "comma separated column identifiers (see 'timelog columns')")
	fs.String("delimiter", "", "field delimiter: comma, semicolon, tab, pipe, space or one character")
	fs.String("qualifier", "", "text qualifier: double, single, none or one character")
	fs.String("line-terminator", "", "line terminator: unix, windows, mac")
	fs.String("empty-values", "", "empty values: blank, null")
	fs.String("newlines", "", "newlines inside values: preserve, merge, merge_space")
	fs.String("booleans", "", "0/1 values: raw, true_false, True_False, yes_no, Yes_No")
	fs.Bool("attributes", false, "append one column per task attribute")
	fs.Bool("exclude-headers", false, "omit the header line")
	fs.String("encoding", "", "output encoding: utf-8, utf-8-bom, windows-1252, iso-8859-1")
}

// bindExportFlags binds the export flags present in fs to their keys.
func bindExportFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for _, fk := range exportFlagKeys {
		f := fs.Lookup(fk.flag)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(fk.key, f); err != nil {
			return fmt.Errorf("bind flag %s: %w", fk.flag, err)
		}
	}
	return nil
}

// resolveColumns returns the configured column identifiers as projections.
func resolveColumns(v *viper.Viper) ([]types.Projection, error) {
	var ids []string
	for _, id := range v.GetStringSlice(cfgKeyColumns) {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return export.Projections(ids)
}

// resolveExportOptions builds ExportOptions from flags, config.yaml and
// defaults, in that order of precedence.
func resolveExportOptions(v *viper.Viper) (types.ExportOptions, error) {
	opts := types.DefaultExportOptions()

	var err error
	if opts.Delimiter, err = types.ParseDelimiter(v.GetString(cfgKeyDelimiter)); err != nil {
		return opts, err
	}
	if opts.Qualifier, err = types.ParseQualifier(v.GetString(cfgKeyQualifier)); err != nil {
		return opts, err
	}
	if opts.Encoding, err = export.CanonicalEncoding(v.GetString(cfgKeyEncoding)); err != nil {
		return opts, err
	}

	opts.LineTerminator = types.LineTerminator(v.GetString(cfgKeyLineTerminator))
	opts.EmptyValues = types.EmptyValuePolicy(v.GetString(cfgKeyEmptyValues))
	opts.Newlines = types.NewlinePolicy(v.GetString(cfgKeyNewlines))
	opts.Booleans = types.BooleanPolicy(v.GetString(cfgKeyBooleans))
	opts.IncludeAttributes = v.GetBool(cfgKeyAttributes)
	opts.ExcludeHeaders = v.GetBool(cfgKeyExcludeHeaders)
	opts.PreviewLimit = v.GetInt(cfgKeyPreviewLimit)

	return opts, opts.Validate()
}

// configPath returns the config.yaml path for the resolved config dir.
func (a *app) configPath() string {
	return paths.ConfigFile(a.configDir)
}
