package analytics

import "github.com/sirupsen/logrus"

// log 指标模块的日志记录器
var log = logrus.WithField("module", "analytics")
