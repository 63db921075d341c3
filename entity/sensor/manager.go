package sensor

import (
	"fmt"

	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/intersection-sim-oss/entity"
	"github.com/tsinghua-fib-lab/intersection-sim-oss/utils/config"
)

// SensorManager 传感器管理器
// 功能：管理所有传感器实体，提供创建、查找、聚合推进、启用切换等功能
type SensorManager struct {
	ctx entity.ITaskContext

	data    map[int32]*Sensor
	sensors []*Sensor
}

// NewManager 创建传感器管理器实例
// 参数：ctx-任务上下文
// 返回：新创建的传感器管理器实例
func NewManager(ctx entity.ITaskContext) *SensorManager {
	return &SensorManager{
		ctx:     ctx,
		data:    make(map[int32]*Sensor),
		sensors: make([]*Sensor, 0),
	}
}

// Init 初始化所有传感器
// 参数：cfgs-传感器配置列表
// 返回：配置非法时返回错误
func (m *SensorManager) Init(cfgs []config.Sensor) error {
	m.sensors = make([]*Sensor, 0, len(cfgs))
	for _, cfg := range cfgs {
		s, err := newSensor(m.ctx, cfg)
		if err != nil {
			return err
		}
		m.sensors = append(m.sensors, s)
	}
	m.data = lo.SliceToMap(m.sensors, func(s *Sensor) (int32, *Sensor) {
		return s.id, s
	})
	return nil
}

// Get 根据ID获取传感器实例
// 参数：id-传感器的唯一标识符
// 返回：传感器实例，不存在时返回错误
func (m *SensorManager) Get(id int32) (entity.ISensor, error) {
	if s, ok := m.data[id]; !ok {
		return nil, fmt.Errorf("no id %d in sensor data", id)
	} else {
		return s, nil
	}
}

// Sensors 获取全部传感器
func (m *SensorManager) Sensors() []entity.ISensor {
	return lo.Map(m.sensors, func(s *Sensor, _ int) entity.ISensor { return s })
}

// SetActive 设置传感器启用标志
// 功能：切换指定传感器的展示层可见性，不影响聚合计算
// 参数：id-传感器ID，active-启用标志
// 返回：传感器不存在时返回错误
func (m *SensorManager) SetActive(id int32, active bool) error {
	s, ok := m.data[id]
	if !ok {
		return fmt.Errorf("no id %d in sensor data", id)
	}
	s.setActive(active)
	log.Infof("sensor %d active=%v", id, active)
	return nil
}

// Update 更新阶段，重新计算所有传感器的聚合结果
func (m *SensorManager) Update() {
	for _, s := range m.sensors {
		s.update()
	}
}

// Reset 将所有传感器恢复到初始状态
func (m *SensorManager) Reset() {
	for _, s := range m.sensors {
		s.reset()
	}
}
