package config

import "fmt"

// 合法的行进方向取值，与entity.ParseDirection保持一致
var validApproaches = map[string]bool{
	"north": true,
	"south": true,
	"east":  true,
	"west":  true,
}

// 合法的信号灯初始状态取值
var validStates = map[string]bool{
	"green":  true,
	"yellow": true,
	"red":    true,
}

// RuntimeConfig 运行时配置
// 功能：存储补全默认值并通过校验后的配置
// 说明：将YAML配置转换为运行时可用的配置对象
type RuntimeConfig struct {
	All Config  // 全部配置
	C   Control // 全局控制配置
}

// NewRuntimeConfig 根据配置初始化运行时配置
// 功能：补全默认值、校验配置合法性
// 参数：config-原始配置对象
// 返回：初始化的运行时配置指针，配置非法时返回错误
// 算法说明：
// 1. 补全缺省项（帧间隔、边界、采样间隔、历史长度）
// 2. 校验生成间隔、信号灯周期、传感器半径等取值
// 3. 校验信号灯与传感器的ID唯一性、方向合法性
func NewRuntimeConfig(config Config) (*RuntimeConfig, error) {
	if config.Control.Step.Interval <= 0 {
		config.Control.Step.Interval = 1.0 / 16
	}
	if config.Control.Boundary <= 0 {
		config.Control.Boundary = 100
	}
	if config.Analytics.SampleInterval <= 0 {
		config.Analytics.SampleInterval = 1.0
	}
	if config.Analytics.HistorySize <= 0 {
		config.Analytics.HistorySize = 30
	}
	if err := validate(config); err != nil {
		return nil, err
	}

	rc := &RuntimeConfig{}
	rc.All = config
	rc.C = config.Control
	return rc, nil
}

// validate 校验配置合法性
// 返回：第一个发现的配置错误，全部合法时返回nil
func validate(c Config) error {
	if c.Spawn.MinInterval <= 0 || c.Spawn.MaxInterval < c.Spawn.MinInterval {
		return fmt.Errorf("config: invalid spawn interval [%f, %f]",
			c.Spawn.MinInterval, c.Spawn.MaxInterval)
	}
	if c.Spawn.MaxVehicles < 0 {
		return fmt.Errorf("config: max_vehicles must be non-negative, got %d", c.Spawn.MaxVehicles)
	}
	signalIDs := make(map[int32]bool)
	approaches := make(map[string]bool)
	for _, s := range c.Signals {
		if signalIDs[s.ID] {
			return fmt.Errorf("config: duplicate signal id %d", s.ID)
		}
		signalIDs[s.ID] = true
		if !validApproaches[s.Approach] {
			return fmt.Errorf("config: signal %d has unknown approach %q", s.ID, s.Approach)
		}
		if approaches[s.Approach] {
			return fmt.Errorf("config: duplicate signal approach %q", s.Approach)
		}
		approaches[s.Approach] = true
		if s.Cycle.Green <= 0 || s.Cycle.Yellow <= 0 || s.Cycle.Red <= 0 {
			return fmt.Errorf("config: signal %d has non-positive cycle duration %+v", s.ID, s.Cycle)
		}
		if s.StartState != "" && !validStates[s.StartState] {
			return fmt.Errorf("config: signal %d has unknown start state %q", s.ID, s.StartState)
		}
	}
	sensorIDs := make(map[int32]bool)
	for _, s := range c.Sensors {
		if sensorIDs[s.ID] {
			return fmt.Errorf("config: duplicate sensor id %d", s.ID)
		}
		sensorIDs[s.ID] = true
		if !validApproaches[s.Approach] {
			return fmt.Errorf("config: sensor %d has unknown approach %q", s.ID, s.Approach)
		}
		if s.Radius <= 0 {
			return fmt.Errorf("config: sensor %d has non-positive radius %f", s.ID, s.Radius)
		}
	}
	return nil
}

// Default 内置默认配置
// 功能：提供未指定配置文件时的标准十字路口配置
// 说明：南北向先行绿灯，东西向以红灯起步，红灯时长等于对向绿灯加黄灯
func Default() Config {
	cycle := SignalCycle{Green: 30, Yellow: 5, Red: 35}
	return Config{
		Control: Control{
			Step:     ControlStep{Interval: 1.0 / 16},
			Seed:     43,
			Boundary: 100,
		},
		Spawn: Spawn{
			MinInterval: 1.5,
			MaxInterval: 3.0,
			MaxVehicles: 60,
		},
		Signals: []Signal{
			{ID: 1, Approach: "north", Position: Position{X: 8, Y: 5, Z: 8}, Cycle: cycle, StartState: "green"},
			{ID: 2, Approach: "south", Position: Position{X: -8, Y: 5, Z: -8}, Cycle: cycle, StartState: "green"},
			{ID: 3, Approach: "east", Position: Position{X: -8, Y: 5, Z: 8}, Cycle: cycle, StartState: "red"},
			{ID: 4, Approach: "west", Position: Position{X: 8, Y: 5, Z: -8}, Cycle: cycle, StartState: "red"},
		},
		Sensors: []Sensor{
			{ID: 1, Approach: "north", Position: Position{X: 2.5, Y: 6, Z: 25}, Radius: 30},
			{ID: 2, Approach: "south", Position: Position{X: -2.5, Y: 6, Z: -25}, Radius: 30},
			{ID: 3, Approach: "east", Position: Position{X: -25, Y: 6, Z: 2.5}, Radius: 30},
			{ID: 4, Approach: "west", Position: Position{X: 25, Y: 6, Z: -2.5}, Radius: 30},
		},
		Analytics: Analytics{SampleInterval: 1.0, HistorySize: 30},
	}
}
