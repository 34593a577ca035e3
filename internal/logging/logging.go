package logging

import (
	"os"

	"github.com/sirupsen/logrus"
)

var logg *logrus.Logger

func init() {
	logg = logrus.New()
	logg.SetFormatter(&logrus.JSONFormatter{})
	logg.SetLevel(logrus.InfoLevel)
	logg.SetOutput(os.Stdout)
}

func Get() *logrus.Logger {
	return logg
}

// LogError: log estruturado de erro com módulo e contexto, para os handlers
// não espalharem WithFields por todo lado.
func LogError(module, context string, err error) {
	logg.WithFields(logrus.Fields{
		"module":  module,
		"context": context,
	}).Error(err.Error())
}
