package repo

import (
	"bytes"
	"os"
	"path"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/mitchellh/mapstructure"
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type Repo struct {
	RepoRoot      string
	Config        *Config
	GenesisConfig *GenesisConfig
}

func (r *Repo) Flush() error {
	if err := writeConfigWithEnv(path.Join(r.RepoRoot, CfgFileName), r.Config); err != nil {
		return errors.Wrap(err, "failed to write config")
	}
	if err := writeConfigWithEnv(path.Join(r.RepoRoot, genesisCfgFileName), r.GenesisConfig); err != nil {
		return errors.Wrap(err, "failed to write genesis config")
	}
	return nil
}

func writeConfigWithEnv(cfgPath string, config any) error {
	if err := writeConfig(cfgPath, config); err != nil {
		return err
	}
	// write back environment variables first
	if err := readConfigFromFile(cfgPath, config); err != nil {
		return errors.Wrapf(err, "failed to read cfg from environment")
	}
	if err := writeConfig(cfgPath, config); err != nil {
		return err
	}
	return nil
}

func writeConfig(cfgPath string, config any) error {
	raw, err := MarshalConfig(config)
	if err != nil {
		return err
	}

	return os.WriteFile(cfgPath, []byte(raw), 0755)
}

func MarshalConfig(config any) (string, error) {
	buf := bytes.NewBuffer([]byte{})
	e := toml.NewEncoder(buf)
	e.SetIndentTables(true)
	e.SetArraysMultiline(true)
	if err := e.Encode(config); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func Default(repoRoot string) (*Repo, error) {
	return &Repo{
		RepoRoot:      repoRoot,
		Config:        DefaultConfig(),
		GenesisConfig: DefaultGenesisConfig(),
	}, nil
}

// Load reads the repo from disk, filling in defaults for files that are
// missing so a bare directory is a valid repo.
func Load(repoRoot string) (*Repo, error) {
	repoRoot, err := LoadRepoRootFromEnv(repoRoot)
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	cfgPath := path.Join(repoRoot, CfgFileName)
	if fileExist(cfgPath) {
		if err := readConfigFromFile(cfgPath, cfg); err != nil {
			return nil, err
		}
	}

	genesisCfg := DefaultGenesisConfig()
	genesisCfgPath := path.Join(repoRoot, genesisCfgFileName)
	if fileExist(genesisCfgPath) {
		if err := readConfigFromFile(genesisCfgPath, genesisCfg); err != nil {
			return nil, err
		}
	}
	if err := genesisCfg.Validate(); err != nil {
		return nil, err
	}

	return &Repo{
		RepoRoot:      repoRoot,
		Config:        cfg,
		GenesisConfig: genesisCfg,
	}, nil
}

func LoadRepoRootFromEnv(repoRoot string) (string, error) {
	if repoRoot != "" {
		return repoRoot, nil
	}
	repoRoot = os.Getenv(rootPathEnvVar)
	var err error
	if len(repoRoot) == 0 {
		repoRoot, err = homedir.Expand(defaultRepoRoot)
	}
	return repoRoot, err
}

func readConfigFromFile(cfgFilePath string, config any) error {
	vp := viper.New()
	vp.SetConfigFile(cfgFilePath)
	vp.SetConfigType("toml")

	// only check types, viper does not have a strong type checking
	raw, err := os.ReadFile(cfgFilePath)
	if err != nil {
		return err
	}
	decoder := toml.NewDecoder(bytes.NewBuffer(raw))
	checker := reflect.New(reflect.TypeOf(config).Elem())
	if err := decoder.Decode(checker.Interface()); err != nil {
		var decodeError *toml.DecodeError
		if errors.As(err, &decodeError) {
			return errors.Errorf("check config format failed from %s:\n%s", cfgFilePath, decodeError.String())
		}

		return errors.Wrapf(err, "check config format failed from %s", cfgFilePath)
	}

	return readConfig(vp, config)
}

func readConfig(vp *viper.Viper, config any) error {
	vp.AutomaticEnv()
	if _, ok := config.(*GenesisConfig); ok {
		vp.SetEnvPrefix("ONYX_LEDGER_GENESIS")
	} else {
		vp.SetEnvPrefix("ONYX_LEDGER")
	}
	replacer := strings.NewReplacer(".", "_")
	vp.SetEnvKeyReplacer(replacer)

	if err := vp.ReadInConfig(); err != nil {
		return err
	}

	return vp.Unmarshal(config, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		StringToTimeDurationHookFunc(),
		func(
			f reflect.Kind,
			t reflect.Kind,
			data any) (any, error) {
			if f != reflect.String || t != reflect.Slice {
				return data, nil
			}

			raw := data.(string)
			if raw == "" {
				return []string{}, nil
			}
			raw = strings.TrimPrefix(raw, ";")
			raw = strings.TrimSuffix(raw, ";")

			return strings.Split(raw, ";"), nil
		},
	)))
}

func fileExist(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}

func FileExist(p string) bool {
	return fileExist(p)
}

func GetStoragePath(repoRoot string, subPath ...string) string {
	p := filepath.Join(repoRoot, "storage")
	for _, s := range subPath {
		p = filepath.Join(p, s)
	}
	return p
}

func WritePid(rootPath string) error {
	pid := os.Getpid()
	pidStr := strconv.Itoa(pid)
	if err := os.WriteFile(filepath.Join(rootPath, pidFileName), []byte(pidStr), 0755); err != nil {
		return errors.Wrap(err, "failed to write pid file")
	}
	return nil
}

func RemovePID(rootPath string) error {
	return os.Remove(filepath.Join(rootPath, pidFileName))
}
