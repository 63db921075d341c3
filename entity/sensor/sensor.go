package sensor

import (
	"fmt"
	"math"

	"git.fiblab.net/general/common/v2/geometry"
	"github.com/tsinghua-fib-lab/intersection-sim-oss/entity"
	"github.com/tsinghua-fib-lab/intersection-sim-oss/utils/config"
)

// summary 传感器聚合结果
// 功能：存储每tick重新计算的聚合数据
type summary struct {
	Count       int     // 检测范围内的车辆总数
	QueueLength int     // 检测范围内处于停止状态的车辆数
	AvgSpeed    float64 // 检测范围内行驶车辆的平均速度（无行驶车辆时为0）
}

// Sensor 路口摄像头（传感器）
// 功能：每tick统计检测半径内车辆的数量、排队长度与平均速度
// 说明：active标志仅控制展示层可见性，关闭后聚合计算照常进行；
// 聚合结果为纯派生数据，在车辆运动之后重算，无需snapshot双缓冲
type Sensor struct {
	ctx entity.ITaskContext

	id       int32
	position geometry.Point
	approach entity.Direction
	radius   float64

	// 启用标志。命令面在两个tick之间调用，直接写入即可
	active bool

	current summary // 本tick的聚合结果
}

// newSensor 创建传感器
// 参数：ctx-任务上下文，cfg-传感器配置
// 返回：初始化完成的传感器实例，配置非法时返回错误
func newSensor(ctx entity.ITaskContext, cfg config.Sensor) (*Sensor, error) {
	approach, err := entity.ParseDirection(cfg.Approach)
	if err != nil {
		return nil, fmt.Errorf("sensor %d: %w", cfg.ID, err)
	}
	return &Sensor{
		ctx:      ctx,
		id:       cfg.ID,
		position: geometry.Point{X: cfg.Position.X, Y: cfg.Position.Y, Z: cfg.Position.Z},
		approach: approach,
		radius:   cfg.Radius,
		active:   true,
	}, nil
}

// update 更新阶段，重新计算聚合结果
// 算法说明：
// 1. 遍历store内全部车辆，按地平面欧氏距离筛选检测范围内的车辆
// 2. 读取车辆本tick更新后的状态，按停止标志划分为排队与行驶两类
// 3. 平均速度只统计行驶车辆，无行驶车辆时为0（防止除零）
func (s *Sensor) update() {
	count, queue, moving := 0, 0, 0
	movingVSum := .0
	for _, v := range s.ctx.VehicleManager().Vehicles() {
		pos := v.RuntimeXYZ()
		if math.Hypot(pos.X-s.position.X, pos.Z-s.position.Z) >= s.radius {
			continue
		}
		count++
		if v.RuntimeIsStopped() {
			queue++
		} else {
			moving++
			movingVSum += v.RuntimeV()
		}
	}
	avgSpeed := .0
	if moving > 0 {
		avgSpeed = movingVSum / float64(moving)
	}
	s.current = summary{
		Count:       count,
		QueueLength: queue,
		AvgSpeed:    avgSpeed,
	}
}

// reset 恢复到初始状态
// 说明：聚合结果清零，启用标志恢复为true
func (s *Sensor) reset() {
	s.active = true
	s.current = summary{}
}

// setActive 设置启用标志
// 说明：立即生效，仅影响展示层可见性
func (s *Sensor) setActive(active bool) {
	s.active = active
}

// ID 获取传感器ID
func (s *Sensor) ID() int32 {
	return s.id
}

// XYZ 获取位置坐标
func (s *Sensor) XYZ() geometry.Point {
	return s.position
}

// Approach 获取监测的行进方向
func (s *Sensor) Approach() entity.Direction {
	return s.approach
}

// Radius 获取检测半径
func (s *Sensor) Radius() float64 {
	return s.radius
}

// Active 获取启用标志
func (s *Sensor) Active() bool {
	return s.active
}

// Count 获取检测范围内的车辆总数
func (s *Sensor) Count() int {
	return s.current.Count
}

// QueueLength 获取检测范围内处于停止状态的车辆数
func (s *Sensor) QueueLength() int {
	return s.current.QueueLength
}

// AvgSpeed 获取检测范围内行驶车辆的平均速度
func (s *Sensor) AvgSpeed() float64 {
	return s.current.AvgSpeed
}
