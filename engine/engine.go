package engine

import (
	"flag"
	"sync/atomic"
	"time"

	"git.fiblab.net/general/common/v2/geometry"
	"github.com/tsinghua-fib-lab/intersection-sim-oss/analytics"
	"github.com/tsinghua-fib-lab/intersection-sim-oss/clock"
	"github.com/tsinghua-fib-lab/intersection-sim-oss/entity"
	"github.com/tsinghua-fib-lab/intersection-sim-oss/entity/sensor"
	"github.com/tsinghua-fib-lab/intersection-sim-oss/entity/signal"
	"github.com/tsinghua-fib-lab/intersection-sim-oss/entity/vehicle"
	"github.com/tsinghua-fib-lab/intersection-sim-oss/utils/config"
	"github.com/tsinghua-fib-lab/intersection-sim-oss/utils/randengine"
)

var (
	heartBeatInterval = flag.Int("log.heartbeat_interval", 1000, "心跳日志间隔步数")
)

// Engine 仿真引擎上下文
// 功能：包含一次仿真的所有组件与状态，驱动tick流水线并对外提供
// 命令面与只读快照
// 说明：状态只有tick流水线一个写入方，渲染、指标面板等协作方只通过
// 只读快照访问
type Engine struct {
	// 运行标志，false时Step不推进仿真时间（暂停不丢弃状态）
	running bool
	// 关闭指令
	closed atomic.Bool

	// 时钟
	clock *clock.Clock
	// 随机数引擎
	generator *randengine.Engine

	// 车辆管理器（实体store）
	vehicleManager *vehicle.VehicleManager
	// 信号灯管理器
	signalManager *signal.SignalManager
	// 传感器管理器
	sensorManager *sensor.SensorManager
	// 指标采集器
	collector *analytics.Collector

	// 运行时配置
	runtimeConfig *config.RuntimeConfig
}

// New 创建仿真引擎
// 功能：校验配置并初始化所有组件
// 参数：c-配置对象
// 返回：初始化完成的引擎实例，配置非法时返回错误
// 算法说明：
// 1. 补全默认值并校验配置
// 2. 创建时钟与随机数引擎
// 3. 依次创建信号灯、传感器、车辆管理器与指标采集器
func New(c config.Config) (*Engine, error) {
	rc, err := config.NewRuntimeConfig(c)
	if err != nil {
		return nil, err
	}
	e := &Engine{
		clock:         clock.New(),
		runtimeConfig: rc,
	}
	e.generator = randengine.New(rc.C.Seed)
	e.signalManager = signal.NewManager(e)
	if err := e.signalManager.Init(rc.All.Signals); err != nil {
		return nil, err
	}
	e.sensorManager = sensor.NewManager(e)
	if err := e.sensorManager.Init(rc.All.Sensors); err != nil {
		return nil, err
	}
	e.vehicleManager = vehicle.NewManager(e)
	e.collector = analytics.NewCollector(e)
	log.Infof("engine initialized: %d signals, %d sensors, boundary=%.0f",
		len(rc.All.Signals), len(rc.All.Sensors), rc.C.Boundary)
	return e, nil
}

// Clock 获取时钟
func (e *Engine) Clock() *clock.Clock {
	return e.clock
}

// RuntimeConfig 获取运行时配置
func (e *Engine) RuntimeConfig() *config.RuntimeConfig {
	return e.runtimeConfig
}

// Generator 获取随机数引擎
func (e *Engine) Generator() *randengine.Engine {
	return e.generator
}

// VehicleManager 获取车辆管理器
func (e *Engine) VehicleManager() entity.IVehicleManager {
	return e.vehicleManager
}

// SignalManager 获取信号灯管理器
func (e *Engine) SignalManager() entity.ISignalManager {
	return e.signalManager
}

// SensorManager 获取传感器管理器
func (e *Engine) SensorManager() entity.ISensorManager {
	return e.sensorManager
}

// Step 推进一个tick
// 功能：按固定顺序执行一次完整的仿真流水线
// 参数：dt-本tick的时间间隔（秒），由帧循环提供
// 算法说明：
// 1. 运行标志为false时直接返回（暂停冻结仿真时间）
// 2. 推进时钟并定期输出心跳日志
// 3. prepare阶段：各管理器提交snapshot，供外部读取与他车感知
// 4. update阶段按固定顺序执行：
//    信号灯状态机 → 车辆运动（含生成与越界移除） → 传感器聚合 → 指标采样
// 说明：一个tick内的全部变更在下一帧之前全部生效，无组件在tick中途挂起
func (e *Engine) Step(dt float64) {
	if !e.running {
		return
	}
	e.clock.Advance(dt)

	if e.clock.Step%int32(*heartBeatInterval) == 0 {
		hour, minute, second := e.clock.GetHourMinuteSecond()
		log.Infof("STEP: %d(%d:%d:%.2f) vehicles=%d",
			e.clock.Step, hour, minute, second, e.vehicleManager.Count())
	}

	// Prepare
	e.signalManager.Prepare()
	e.vehicleManager.Prepare()

	// Update
	e.signalManager.Update(dt)
	e.vehicleManager.Update(dt)
	e.sensorManager.Update()
	e.collector.Update(dt)
}

// Start 启动（或继续）仿真
// 说明：幂等操作，重复调用无副作用
func (e *Engine) Start() {
	if !e.running {
		e.running = true
		log.Infof("engine started")
	}
}

// Pause 暂停仿真
// 功能：冻结仿真时间，不丢弃任何状态
// 说明：幂等操作，重复调用无副作用
func (e *Engine) Pause() {
	if e.running {
		e.running = false
		log.Infof("engine paused")
	}
}

// IsRunning 获取运行标志
func (e *Engine) IsRunning() bool {
	return e.running
}

// Reset 重置仿真状态
// 功能：原子的整体状态替换：清空全部车辆，信号灯与传感器恢复初始配置，
// 指标历史清空，仿真时间归零
// 说明：在两个tick之间调用是安全的，随机数序列不重置
func (e *Engine) Reset() {
	e.clock.Init()
	e.vehicleManager.Reset()
	e.signalManager.Reset()
	e.sensorManager.Reset()
	e.collector.Reset()
	log.Infof("engine reset")
}

// SpawnVehicle 在指定位置直接生成一辆车
// 功能：绕过随机生成器，供控制面与场景构造使用
// 参数：class-车辆类型，direction-行进方向，position-出生位置
// 返回：分配的车辆ID
// 说明：生成延迟到下一tick的flush时生效
func (e *Engine) SpawnVehicle(
	class entity.VehicleClass,
	direction entity.Direction,
	position geometry.Point,
) int32 {
	return e.vehicleManager.SpawnAt(class, direction, position)
}

// SetSensorActive 设置传感器启用标志
// 功能：切换指定传感器的展示层可见性，不影响聚合计算
// 参数：id-传感器ID，active-启用标志
// 返回：传感器不存在时返回错误
func (e *Engine) SetSensorActive(id int32, active bool) error {
	return e.sensorManager.SetActive(id, active)
}

// Close 请求停止帧循环
func (e *Engine) Close() {
	e.closed.Store(true)
}

// Run 运行帧循环
// 功能：以配置的帧间隔驱动Step，直到Close被调用或达到配置的总步数
// 说明：每帧的dt取真实经过的时间，帧循环被操作系统延迟时dt相应变大；
// 暂停期间帧循环照常运行但仿真时间冻结
func (e *Engine) Run() {
	e.Start()
	interval := time.Duration(e.runtimeConfig.C.Step.Interval * float64(time.Second))
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	last := time.Now()
	for now := range ticker.C {
		if e.closed.Load() {
			break
		}
		dt := now.Sub(last).Seconds()
		last = now
		e.Step(dt)
		if total := e.runtimeConfig.C.Step.Total; total > 0 && e.clock.Step >= total {
			break
		}
	}
	log.Infof("engine complete")
}
