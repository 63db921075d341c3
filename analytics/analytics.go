package analytics

import (
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/intersection-sim-oss/entity"
	"github.com/tsinghua-fib-lab/intersection-sim-oss/utils/container"
)

const (
	// 拥堵等级阈值（基于congestionIndex）

	criticalThreshold = 70
	highThreshold     = 40
	mediumThreshold   = 20

	queueToIndexScale = 10  // 平均排队长度到拥堵指数的放大系数
	waitTimeScale     = 2.0 // 平均等待时间估算的放大系数（秒）

	// throughputRange 吞吐量统计的中心区域半宽
	// 说明：以原点为中心的方形区域，落入其中的车辆计入吞吐量
	throughputRange = 10

	greenExtensionPercent = 20 // 绿灯时长建议的固定增加比例（%）
)

// Level 拥堵等级
type Level int32

const (
	LevelLow Level = iota
	LevelMedium
	LevelHigh
	LevelCritical
)

// String 获取拥堵等级的字符串表示
func (l Level) String() string {
	switch l {
	case LevelLow:
		return "low"
	case LevelMedium:
		return "medium"
	case LevelHigh:
		return "high"
	case LevelCritical:
		return "critical"
	default:
		return fmt.Sprintf("Level(%d)", int32(l))
	}
}

// levelOf 根据拥堵指数划分拥堵等级
func levelOf(congestionIndex float64) Level {
	switch {
	case congestionIndex > criticalThreshold:
		return LevelCritical
	case congestionIndex > highThreshold:
		return LevelHigh
	case congestionIndex > mediumThreshold:
		return LevelMedium
	default:
		return LevelLow
	}
}

// Snapshot 交通质量指标快照
// 功能：记录一次采样得到的全部派生指标，供指标面板与趋势展示使用
type Snapshot struct {
	ID string  // 快照唯一标识
	T  float64 // 采样时刻的仿真时间（秒）

	CongestionIndex    float64 // 拥堵指数（0-100）
	CongestionLevel    Level   // 拥堵等级
	AvgQueueLength     float64 // 全部传感器的平均排队长度
	Throughput         int     // 路口中心区域内的车辆数
	TrafficEfficiency  float64 // 通行效率（0-100）
	BottleneckSensorID int32   // 排队最长的传感器ID，无传感器时为0
	AvgWaitTime        float64 // 平均等待时间估算（秒）
	LightOptimization  float64 // 处于绿灯状态的信号灯占比
	Recommendation     string  // 信控调整建议
}

// Collector 指标采集器
// 功能：按固定的仿真时间间隔采样已提交的聚合状态，派生交通质量指标
// 说明：采样在tick流水线内同步执行，读取的均为已提交（snapshot）数据，
// 不存在与tick流水线的并发竞争
type Collector struct {
	ctx entity.ITaskContext

	interval float64 // 采样间隔（仿真秒）
	acc      float64 // 距上次采样累计的仿真时间（秒）

	history *container.Ring[Snapshot]
}

// NewCollector 创建指标采集器
// 参数：ctx-任务上下文
// 返回：初始化完成的采集器实例，采样间隔与历史容量取自配置
func NewCollector(ctx entity.ITaskContext) *Collector {
	cfg := ctx.RuntimeConfig().All.Analytics
	return &Collector{
		ctx:      ctx,
		interval: cfg.SampleInterval,
		history:  container.NewRing[Snapshot](cfg.HistorySize),
	}
}

// Update 推进采样计时
// 功能：累计仿真时间达到采样间隔时执行一次采样
// 参数：dt-时间步长（秒）
// 说明：每tick至多采样一次，帧间隔异常偏大时计时归零而不补采
func (c *Collector) Update(dt float64) {
	c.acc += dt
	if c.acc < c.interval {
		return
	}
	c.acc = 0
	snapshot := c.sample()
	c.history.Push(snapshot)
	log.Debugf("sample at %s: index=%.1f level=%v throughput=%d",
		c.ctx.Clock(), snapshot.CongestionIndex, snapshot.CongestionLevel, snapshot.Throughput)
}

// sample 执行一次指标派生
// 返回：本次采样得到的快照
// 算法说明：
// 1. 平均排队长度 = 各传感器排队长度之和 / 传感器数（无传感器时为0）
// 2. 拥堵指数 = clamp(平均排队长度×10, 0, 100)，通行效率 = 100 - 拥堵指数
// 3. 吞吐量 = 路口中心区域内的车辆数
// 4. 瓶颈传感器 = 排队最长者，并列时取遍历顺序靠前者
// 5. 平均等待时间 = 排队总数 / max(1, 车辆总数) × 放大系数
// 6. 信控利用率 = 绿灯信号灯占比
func (c *Collector) sample() Snapshot {
	sensors := c.ctx.SensorManager().Sensors()
	vehicles := c.ctx.VehicleManager().Vehicles()
	signals := c.ctx.SignalManager().Signals()

	queueSum := 0
	for _, s := range sensors {
		queueSum += s.QueueLength()
	}
	avgQueue := .0
	if len(sensors) > 0 {
		avgQueue = float64(queueSum) / float64(len(sensors))
	}
	congestionIndex := lo.Clamp(avgQueue*queueToIndexScale, 0, 100)

	throughput := 0
	for _, v := range vehicles {
		pos := v.XYZ()
		if math.Abs(pos.X) <= throughputRange && math.Abs(pos.Z) <= throughputRange {
			throughput++
		}
	}

	var bottleneck entity.ISensor
	for _, s := range sensors {
		if bottleneck == nil || s.QueueLength() > bottleneck.QueueLength() {
			bottleneck = s
		}
	}

	avgWaitTime := float64(queueSum) / math.Max(1, float64(len(vehicles))) * waitTimeScale

	lightOptimization := .0
	if len(signals) > 0 {
		greens := lo.CountBy(signals, func(s entity.ISignal) bool {
			return s.State() == entity.LightStateGreen
		})
		lightOptimization = float64(greens) / float64(len(signals))
	}

	snapshot := Snapshot{
		ID:                uuid.NewString(),
		T:                 c.ctx.Clock().T,
		CongestionIndex:   congestionIndex,
		CongestionLevel:   levelOf(congestionIndex),
		AvgQueueLength:    avgQueue,
		Throughput:        throughput,
		TrafficEfficiency: lo.Clamp(100-congestionIndex, 0, 100),
		AvgWaitTime:       avgWaitTime,
		LightOptimization: lightOptimization,
	}
	if bottleneck != nil {
		snapshot.BottleneckSensorID = bottleneck.ID()
		snapshot.Recommendation = recommend(c.ctx, bottleneck)
	}
	return snapshot
}

// recommend 生成信控调整建议
// 功能：围绕瓶颈传感器给出固定比例的绿灯延长建议
// 参数：bottleneck-排队最长的传感器
// 返回：建议文本
func recommend(ctx entity.ITaskContext, bottleneck entity.ISensor) string {
	if bottleneck.QueueLength() == 0 {
		return "traffic is flowing smoothly, no signal adjustment needed"
	}
	governing := ctx.SignalManager().GetByApproach(bottleneck.Approach())
	if governing == nil {
		return fmt.Sprintf(
			"camera %d reports the longest queue (%d vehicles) on the uncontrolled %s approach",
			bottleneck.ID(), bottleneck.QueueLength(), bottleneck.Approach())
	}
	return fmt.Sprintf(
		"increase green duration of signal %d (%s approach) by %d%% to relieve the queue at camera %d",
		governing.ID(), governing.Approach(), greenExtensionPercent, bottleneck.ID())
}

// Latest 获取最新的指标快照
// 返回：最新快照与是否存在标志，尚未采样时返回false
func (c *Collector) Latest() (Snapshot, bool) {
	return c.history.Latest()
}

// History 按从旧到新的顺序获取保留的全部快照
func (c *Collector) History() []Snapshot {
	return c.history.Items()
}

// Reset 清空历史并重置采样计时
func (c *Collector) Reset() {
	c.acc = 0
	c.history.Clear()
}
