package signal

import (
	"fmt"

	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/intersection-sim-oss/entity"
	"github.com/tsinghua-fib-lab/intersection-sim-oss/utils/config"
)

// SignalManager 信号灯管理器
// 功能：管理所有信号灯实体，提供创建、查找、推进、重置等功能
type SignalManager struct {
	ctx entity.ITaskContext

	data       map[int32]*Signal
	signals    []*Signal
	byApproach map[entity.Direction]*Signal
}

// NewManager 创建信号灯管理器实例
// 参数：ctx-任务上下文
// 返回：新创建的信号灯管理器实例
func NewManager(ctx entity.ITaskContext) *SignalManager {
	return &SignalManager{
		ctx:        ctx,
		data:       make(map[int32]*Signal),
		signals:    make([]*Signal, 0),
		byApproach: make(map[entity.Direction]*Signal),
	}
}

// Init 初始化所有信号灯
// 功能：根据配置初始化所有信号灯对象，建立ID与受控方向的映射关系
// 参数：cfgs-信号灯配置列表
// 返回：配置非法时返回错误
func (m *SignalManager) Init(cfgs []config.Signal) error {
	m.signals = make([]*Signal, 0, len(cfgs))
	for _, cfg := range cfgs {
		s, err := newSignal(m.ctx, cfg)
		if err != nil {
			return err
		}
		m.signals = append(m.signals, s)
	}
	m.data = lo.SliceToMap(m.signals, func(s *Signal) (int32, *Signal) {
		return s.id, s
	})
	m.byApproach = lo.SliceToMap(m.signals, func(s *Signal) (entity.Direction, *Signal) {
		return s.approach, s
	})
	return nil
}

// Get 根据ID获取信号灯实例
// 参数：id-信号灯的唯一标识符
// 返回：信号灯实例，不存在时返回错误
func (m *SignalManager) Get(id int32) (entity.ISignal, error) {
	if s, ok := m.data[id]; !ok {
		return nil, fmt.Errorf("no id %d in signal data", id)
	} else {
		return s, nil
	}
}

// Signals 获取全部信号灯
func (m *SignalManager) Signals() []entity.ISignal {
	return lo.Map(m.signals, func(s *Signal, _ int) entity.ISignal { return s })
}

// GetByApproach 获取控制指定行进方向的信号灯
// 返回：信号灯实例，该方向无信控时返回nil
func (m *SignalManager) GetByApproach(d entity.Direction) entity.ISignal {
	if s, ok := m.byApproach[d]; ok {
		return s
	}
	return nil
}

// Prepare 准备阶段，提交所有信号灯的snapshot
func (m *SignalManager) Prepare() {
	for _, s := range m.signals {
		s.prepare()
	}
}

// Update 更新阶段，推进所有信号灯状态机
// 参数：dt-时间步长（秒）
func (m *SignalManager) Update(dt float64) {
	for _, s := range m.signals {
		s.update(dt)
	}
}

// Reset 将所有信号灯恢复到初始配置状态
func (m *SignalManager) Reset() {
	for _, s := range m.signals {
		s.reset()
	}
}
