package sensor

import "github.com/sirupsen/logrus"

// log 传感器模块的日志记录器
var log = logrus.WithField("module", "sensor")
