package config

// Position 三维坐标配置
// 说明：X/Z为地平面坐标，Y为渲染用的垂直偏移，引擎逻辑不使用Y
type Position struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y,omitempty"`
	Z float64 `yaml:"z"`
}

// ControlStep 指定模拟器帧循环的配置项
// 功能：定义帧间隔与总步数
// 说明：Interval为帧循环的目标间隔（秒），实际每步以真实经过时间为准
type ControlStep struct {
	Total    int32   `yaml:"total,omitempty"` // 总步数，0表示持续运行直到Close
	Interval float64 `yaml:"interval"`        // 帧循环目标间隔（秒）
}

// Control 模拟器控制配置
// 功能：定义仿真系统的核心控制参数
type Control struct {
	Step     ControlStep `yaml:"step"`
	Seed     uint64      `yaml:"seed"`     // 随机数种子
	Boundary float64     `yaml:"boundary"` // 仿真区域边界（坐标绝对值上限）
}

// Spawn 车辆生成配置
// 功能：定义生成间隔区间与车辆数上限
type Spawn struct {
	MinInterval float64 `yaml:"min_interval"`            // 生成间隔下界（秒）
	MaxInterval float64 `yaml:"max_interval"`            // 生成间隔上界（秒）
	MaxVehicles int     `yaml:"max_vehicles,omitempty"`  // 车辆数上限，0表示不限制
}

// SignalCycle 信号灯各状态的持续时长（秒）
type SignalCycle struct {
	Green  float64 `yaml:"green"`
	Yellow float64 `yaml:"yellow"`
	Red    float64 `yaml:"red"`
}

// Signal 单个信号灯的配置
// 说明：各信号灯周期互相独立，引擎不校验相位冲突，由配置方保证
type Signal struct {
	ID         int32       `yaml:"id"`
	Approach   string      `yaml:"approach"` // 受控行进方向：north/south/east/west
	Position   Position    `yaml:"position"` // 仅用于渲染
	Cycle      SignalCycle `yaml:"cycle"`
	StartState string      `yaml:"start_state,omitempty"` // 初始状态，默认green
}

// Sensor 单个摄像头（传感器）的配置
type Sensor struct {
	ID       int32    `yaml:"id"`
	Approach string   `yaml:"approach"` // 监测的行进方向
	Position Position `yaml:"position"`
	Radius   float64  `yaml:"radius"` // 检测半径
}

// Analytics 指标采样配置
type Analytics struct {
	SampleInterval float64 `yaml:"sample_interval,omitempty"` // 采样间隔（仿真秒），默认1.0
	HistorySize    int     `yaml:"history_size,omitempty"`    // 历史快照保留数量，默认30
}

// Config YAML配置文件的根结构
// 功能：定义整个仿真系统的配置结构
type Config struct {
	Control   Control   `yaml:"control"`
	Spawn     Spawn     `yaml:"spawn"`
	Signals   []Signal  `yaml:"signals"`
	Sensors   []Sensor  `yaml:"sensors"`
	Analytics Analytics `yaml:"analytics"`
}
