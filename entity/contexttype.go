package entity

import (
	"github.com/tsinghua-fib-lab/intersection-sim-oss/clock"
	"github.com/tsinghua-fib-lab/intersection-sim-oss/utils/config"
	"github.com/tsinghua-fib-lab/intersection-sim-oss/utils/randengine"
)

// 车辆管理器接口
type IVehicleManager interface {
	Get(id int32) (IVehicle, error) // 根据ID获取车辆
	Vehicles() []IVehicle           // 获取当前store内的全部车辆
	Count() int                     // 获取当前车辆数
}

// 信号灯管理器接口
type ISignalManager interface {
	Get(id int32) (ISignal, error)         // 根据ID获取信号灯
	Signals() []ISignal                    // 获取全部信号灯
	GetByApproach(d Direction) ISignal     // 获取控制指定行进方向的信号灯，不存在时返回nil
}

// 传感器管理器接口
type ISensorManager interface {
	Get(id int32) (ISensor, error)        // 根据ID获取传感器
	Sensors() []ISensor                   // 获取全部传感器
	SetActive(id int32, active bool) error // 设置传感器启用标志
}

type ITaskContext interface {
	Clock() *clock.Clock
	RuntimeConfig() *config.RuntimeConfig
	Generator() *randengine.Engine
	VehicleManager() IVehicleManager
	SignalManager() ISignalManager
	SensorManager() ISensorManager
}
