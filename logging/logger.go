package logging

import (
	"os"

	"github.com/sirupsen/logrus"
)

var Log = logrus.New()

func BootstrapLogger() {
	Log = &logrus.Logger{
		Out:   os.Stdout,
		Hooks: make(logrus.LevelHooks),
		Formatter: &logrus.TextFormatter{
			FullTimestamp: true,
		},
		Level:    logrus.DebugLevel,
		ExitFunc: os.Exit,
	}
	Log.SetReportCaller(true)
}
