package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	easy "git.fiblab.net/utils/logrus-easy-formatter"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/tsinghua-fib-lab/intersection-sim-oss/engine"
	"github.com/tsinghua-fib-lab/intersection-sim-oss/utils/config"
	"gopkg.in/yaml.v2"
)

var (
	// 配置文件路径，为空则使用内置默认十字路口配置
	configPath = flag.String("config", envOr("INTERSECTION_CONFIG", ""), "config file path (empty means built-in defaults)")

	// log
	logLevels = map[string]logrus.Level{
		"trace":    logrus.TraceLevel,
		"debug":    logrus.DebugLevel,
		"info":     logrus.InfoLevel,
		"warn":     logrus.WarnLevel,
		"error":    logrus.ErrorLevel,
		"critical": logrus.FatalLevel,
		"off":      logrus.PanicLevel,
	}
	logLevel = flag.String("log.level", envOr("INTERSECTION_LOG_LEVEL", "info"), "日志级别（可选项：trace debug info warn error critical off）")

	log = logrus.WithField("module", "main")
)

// envOr 获取环境变量，未设置时返回默认值
// 说明：.env文件在init中加载，环境变量可覆盖flag默认值
func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func init() {
	// .env不存在时静默跳过
	_ = godotenv.Load()
}

func main() {
	flag.Parse()
	logrus.SetFormatter(&easy.Formatter{
		TimestampFormat: "2006-01-02 15:04:05.0000",
		LogFormat:       "[%module%] [%time%] [%lvl%] %msg%\n",
	})
	if level, ok := logLevels[*logLevel]; ok {
		logrus.SetLevel(level)
	} else {
		log.Panicf("log.level must be one of %v", logLevels)
	}
	// 获取配置
	c := config.Default()
	if *configPath != "" {
		file, err := os.ReadFile(*configPath)
		if err != nil {
			log.Panicf("config file load err: %v", err)
		}
		if err := yaml.UnmarshalStrict(file, &c); err != nil {
			log.Panicf("config file load err: %v", err)
		}
	}
	log.Infof("%+v", c)

	e, err := engine.New(c)
	if err != nil {
		log.Panicf("engine init err: %v", err)
	}

	// Ctrl-C时停止帧循环
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		e.Close()
	}()

	e.Run()
}
