package signal

import (
	"fmt"

	"git.fiblab.net/general/common/v2/geometry"
	"github.com/tsinghua-fib-lab/intersection-sim-oss/entity"
	"github.com/tsinghua-fib-lab/intersection-sim-oss/utils/config"
)

// tlRuntime 信号灯运行时数据结构
// 功能：存储信号灯的可变状态，包括当前状态与状态内已经过的时间
type tlRuntime struct {
	state entity.LightState // 当前状态
	timer float64           // 当前状态内已经过的时间（秒）
}

// Signal 定周期信号灯
// 功能：按照固定的green→yellow→red循环与各状态配置时长进行切换
// 说明：各信号灯周期互相独立，引擎不校验多灯之间的相位冲突
type Signal struct {
	ctx entity.ITaskContext

	id       int32
	position geometry.Point
	approach entity.Direction
	cycle    config.SignalCycle
	initial  tlRuntime // 初始状态，Reset时恢复

	snapshot tlRuntime // snapshot，用于保存对外输出的数据
	runtime  tlRuntime // 运行时数据
}

// newSignal 创建定周期信号灯
// 功能：根据配置初始化信号灯，解析受控方向与初始状态
// 参数：ctx-任务上下文，cfg-信号灯配置
// 返回：初始化完成的信号灯实例，配置非法时返回错误
func newSignal(ctx entity.ITaskContext, cfg config.Signal) (*Signal, error) {
	approach, err := entity.ParseDirection(cfg.Approach)
	if err != nil {
		return nil, fmt.Errorf("signal %d: %w", cfg.ID, err)
	}
	startState := entity.LightStateGreen
	if cfg.StartState != "" {
		if startState, err = entity.ParseLightState(cfg.StartState); err != nil {
			return nil, fmt.Errorf("signal %d: %w", cfg.ID, err)
		}
	}
	s := &Signal{
		ctx:      ctx,
		id:       cfg.ID,
		position: geometry.Point{X: cfg.Position.X, Y: cfg.Position.Y, Z: cfg.Position.Z},
		approach: approach,
		cycle:    cfg.Cycle,
		initial:  tlRuntime{state: startState},
	}
	s.reset()
	return s, nil
}

// duration 获取指定状态的配置时长
func (s *Signal) duration(state entity.LightState) float64 {
	switch state {
	case entity.LightStateGreen:
		return s.cycle.Green
	case entity.LightStateYellow:
		return s.cycle.Yellow
	case entity.LightStateRed:
		return s.cycle.Red
	default:
		log.Panicf("signal %d: unknown light state %v", s.id, state)
		return 0
	}
}

// prepare 准备阶段，将运行时数据写入snapshot
func (s *Signal) prepare() {
	s.snapshot = s.runtime
}

// update 更新阶段，推进信号灯状态机
// 参数：dt-时间步长（秒）
// 算法说明：
// 1. 累加状态内计时
// 2. 计时达到当前状态配置时长时切换到循环顺序的下一状态，计时归零
// 3. 每tick至多切换一个状态，帧间隔异常偏大时不追赶多个相位
func (s *Signal) update(dt float64) {
	s.runtime.timer += dt
	if s.runtime.timer >= s.duration(s.runtime.state) {
		s.runtime.state = s.runtime.state.Next()
		s.runtime.timer = 0
	}
}

// reset 恢复到初始配置状态
func (s *Signal) reset() {
	s.runtime = s.initial
	s.snapshot = s.initial
}

// ID 获取信号灯ID
func (s *Signal) ID() int32 {
	return s.id
}

// XYZ 获取位置坐标（仅用于渲染）
func (s *Signal) XYZ() geometry.Point {
	return s.position
}

// Approach 获取受控的行进方向
func (s *Signal) Approach() entity.Direction {
	return s.approach
}

// State 获取snapshot状态
func (s *Signal) State() entity.LightState {
	return s.snapshot.state
}

// TimeInState 获取snapshot状态下已经过的时间（秒）
func (s *Signal) TimeInState() float64 {
	return s.snapshot.timer
}

// RuntimeState 获取本tick信控更新后的状态
// 说明：机动车决策在信控更新之后执行，需读取当前tick的最新状态
func (s *Signal) RuntimeState() entity.LightState {
	return s.runtime.state
}
