package clock

import "fmt"

// Clock 仿真时钟管理器
// 功能：管理仿真系统的时间推进，记录当前仿真时间与步数
// 说明：由帧循环驱动，每帧以实际经过时间dt推进，不假设固定步长
type Clock struct {
	T    float64 // 当前仿真时间（秒）
	DT   float64 // 最近一步的时间间隔（秒）
	Step int32   // 已完成的步数
}

// New 创建新的时钟实例
// 返回：初始化完成的时钟实例
func New() *Clock {
	c := &Clock{}
	c.Init()
	return c
}

// Init 初始化时钟状态
// 功能：重置仿真时间与步数
// 说明：Reset时调用，仿真时间回到0
func (c *Clock) Init() {
	c.T = 0
	c.DT = 0
	c.Step = 0
}

// Advance 推进时钟
// 功能：以指定时间间隔推进仿真时间并累加步数
// 参数：dt-本步时间间隔（秒）
func (c *Clock) Advance(dt float64) {
	c.DT = dt
	c.T += dt
	c.Step++
}

// String 获取时钟的字符串表示
// 功能：将当前仿真时间格式化为可读的字符串（HH:MM:SS）
func (c *Clock) String() string {
	t := c.T
	h := int(t / 3600)
	t -= float64(h * 3600)
	m := int(t / 60)
	t -= float64(m * 60)
	s := int(t)
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// GetHourMinuteSecond 获取当前时间的小时、分钟、秒
// 返回：小时、分钟、秒（秒为浮点数，支持亚秒级精度）
func (c *Clock) GetHourMinuteSecond() (int, int, float64) {
	hour := int(c.T) / 3600
	minute := int(c.T) % 3600 / 60
	second := c.T - float64(hour*3600+minute*60)
	return hour, minute, second
}
