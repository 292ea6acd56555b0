package loggers

import (
	"github.com/sirupsen/logrus"

	"github.com/onyxmesh/onyx-ledger/pkg/repo"
)

const (
	App     = "app"
	API     = "api"
	Storage = "storage"
	Asset   = "asset"
)

var w = &LoggerWrapper{
	loggers: map[string]*logrus.Entry{
		App:     newWithModule(App),
		API:     newWithModule(API),
		Storage: newWithModule(Storage),
		Asset:   newWithModule(Asset),
	},
}

type LoggerWrapper struct {
	loggers map[string]*logrus.Entry
}

func newWithModule(name string) *logrus.Entry {
	l := logrus.New()
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02T15:04:05.000",
	})
	return l.WithField("module", name)
}

// Initialize rebuilds the module loggers from config. Safe to call more
// than once; later calls replace earlier loggers.
func Initialize(rep *repo.Repo) error {
	config := rep.Config

	m := make(map[string]*logrus.Entry)
	for name, level := range map[string]string{
		App:     config.Log.Module.App,
		API:     config.Log.Module.API,
		Storage: config.Log.Module.Storage,
		Asset:   config.Log.Module.Asset,
	} {
		entry := newWithModule(name)
		lvl, err := logrus.ParseLevel(orDefault(level, config.Log.Level))
		if err != nil {
			return err
		}
		entry.Logger.SetLevel(lvl)
		entry.Logger.SetReportCaller(config.Log.ReportCaller)
		entry.Logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:    !config.Log.DisableTimestamp,
			DisableTimestamp: config.Log.DisableTimestamp,
			ForceColors:      config.Log.EnableColor,
			TimestampFormat:  "2006-01-02T15:04:05.000",
		})
		m[name] = entry
	}

	w = &LoggerWrapper{loggers: m}
	return nil
}

func orDefault(level, fallback string) string {
	if level == "" {
		return fallback
	}
	return level
}

func Logger(name string) logrus.FieldLogger {
	return w.loggers[name]
}
