package logsvc

import (
	"go.uber.org/zap"

	"github.com/nvthanh/eduleave/core"
	"github.com/nvthanh/eduleave/core/user"
)

type ZapLogger struct {
	sugar   *zap.SugaredLogger
	enabled bool
}

var _ core.Logger = (*ZapLogger)(nil)

func NewZapLogger(conf *core.Config) (*ZapLogger, error) {
	var (
		zl  *zap.Logger
		err error
	)
	if conf.Debug {
		zl, err = zap.NewDevelopment()
	} else {
		zl, err = zap.NewProduction()
	}
	if err != nil {
		return nil, err
	}
	zl = zl.With(zap.String("app", conf.AppName), zap.String("env", conf.Env))
	return &ZapLogger{sugar: zl.Sugar(), enabled: true}, nil
}

func (l *ZapLogger) Enable(enabled bool) { l.enabled = enabled }

// fields turns well-known arg types into structured key-values.
func (l *ZapLogger) fields(args []interface{}) []interface{} {
	kvs := make([]interface{}, 0, 2*len(args))
	for _, arg := range args {
		switch v := arg.(type) {
		case error:
			kvs = append(kvs, "error", v)
		case user.User:
			kvs = append(kvs, "user", v.Username)
		case map[string]interface{}:
			for k, val := range v {
				kvs = append(kvs, k, val)
			}
		default:
			kvs = append(kvs, "arg", v)
		}
	}
	return kvs
}

func (l *ZapLogger) Debug(msg string, args ...interface{}) {
	if l.enabled {
		l.sugar.Debugw(msg, l.fields(args)...)
	}
}

func (l *ZapLogger) Info(msg string, args ...interface{}) {
	if l.enabled {
		l.sugar.Infow(msg, l.fields(args)...)
	}
}

func (l *ZapLogger) Warn(msg string, args ...interface{}) {
	if l.enabled {
		l.sugar.Warnw(msg, l.fields(args)...)
	}
}

func (l *ZapLogger) Error(msg string, args ...interface{}) {
	if l.enabled {
		l.sugar.Errorw(msg, l.fields(args)...)
	}
}

func (l *ZapLogger) Fatal(msg string, args ...interface{}) {
	l.sugar.Fatalw(msg, l.fields(args)...)
}
