package engine

import (
	"git.fiblab.net/general/common/v2/geometry"
	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/intersection-sim-oss/analytics"
	"github.com/tsinghua-fib-lab/intersection-sim-oss/entity"
)

// 只读快照视图，供渲染与指标面板等协作方消费。
// 所有视图均为值拷贝，持有方无法通过视图修改仿真状态。

// VehicleView 车辆只读快照
type VehicleView struct {
	ID        int32
	Position  geometry.Point
	Direction entity.Direction
	Class     entity.VehicleClass
	Speed     float64
	MaxSpeed  float64
	IsStopped bool    // 刹车灯展示用
	Length    float64 // 渲染尺寸
}

// SignalView 信号灯只读快照
type SignalView struct {
	ID          int32
	Position    geometry.Point
	Approach    entity.Direction
	State       entity.LightState
	TimeInState float64
}

// SensorView 传感器只读快照
type SensorView struct {
	ID           int32
	Position     geometry.Point
	Approach     entity.Direction
	Radius       float64
	Active       bool
	VehicleCount int
	QueueLength  int
	AvgSpeed     float64
}

// Vehicles 获取当前全部车辆的只读快照
func (e *Engine) Vehicles() []VehicleView {
	return lo.Map(e.vehicleManager.Vehicles(), func(v entity.IVehicle, _ int) VehicleView {
		return VehicleView{
			ID:        v.ID(),
			Position:  v.XYZ(),
			Direction: v.Direction(),
			Class:     v.Class(),
			Speed:     v.V(),
			MaxSpeed:  v.MaxV(),
			IsStopped: v.IsStopped(),
			Length:    v.Length(),
		}
	})
}

// Signals 获取全部信号灯的只读快照
func (e *Engine) Signals() []SignalView {
	return lo.Map(e.signalManager.Signals(), func(s entity.ISignal, _ int) SignalView {
		return SignalView{
			ID:          s.ID(),
			Position:    s.XYZ(),
			Approach:    s.Approach(),
			State:       s.State(),
			TimeInState: s.TimeInState(),
		}
	})
}

// Sensors 获取全部传感器的只读快照
func (e *Engine) Sensors() []SensorView {
	return lo.Map(e.sensorManager.Sensors(), func(s entity.ISensor, _ int) SensorView {
		return SensorView{
			ID:           s.ID(),
			Position:     s.XYZ(),
			Approach:     s.Approach(),
			Radius:       s.Radius(),
			Active:       s.Active(),
			VehicleCount: s.Count(),
			QueueLength:  s.QueueLength(),
			AvgSpeed:     s.AvgSpeed(),
		}
	})
}

// LatestAnalytics 获取最新的指标快照
// 返回：最新快照与是否存在标志，尚未采样时返回false
func (e *Engine) LatestAnalytics() (analytics.Snapshot, bool) {
	return e.collector.Latest()
}

// AnalyticsHistory 按从旧到新的顺序获取保留的全部指标快照
func (e *Engine) AnalyticsHistory() []analytics.Snapshot {
	return e.collector.History()
}
