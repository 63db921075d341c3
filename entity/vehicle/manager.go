package vehicle

import (
	"fmt"

	"git.fiblab.net/general/common/v2/geometry"
	"git.fiblab.net/general/common/v2/parallel"
	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/intersection-sim-oss/entity"
)

// VehicleManager 车辆管理器（实体store）
// 功能：持有车辆集合的唯一所有权，提供生成、移除、推进、查找等功能
// 说明：生成与移除采用延迟应用方式，统一在flush时生效，保证一个tick内
// 所有车辆决策读取到一致的车辆集合
type VehicleManager struct {
	ctx entity.ITaskContext

	data     map[int32]*Vehicle
	vehicles []*Vehicle
	view     []entity.IVehicle // 对外暴露的车辆列表，flush时重建

	pendingAdd []*Vehicle // 待加入的新生成车辆
	nextID     int32      // 下一个分配的车辆ID

	spawner *spawner
}

// NewManager 创建车辆管理器实例
// 参数：ctx-任务上下文
// 返回：新创建的车辆管理器实例
func NewManager(ctx entity.ITaskContext) *VehicleManager {
	m := &VehicleManager{
		ctx: ctx,
	}
	m.spawner = newSpawner(m)
	m.Reset()
	return m
}

// Get 根据ID获取车辆实例
// 参数：id-车辆的唯一标识符
// 返回：车辆实例，不存在时返回错误
func (m *VehicleManager) Get(id int32) (entity.IVehicle, error) {
	if v, ok := m.data[id]; !ok {
		return nil, fmt.Errorf("no id %d in vehicle data", id)
	} else {
		return v, nil
	}
}

// Vehicles 获取当前store内的全部车辆
func (m *VehicleManager) Vehicles() []entity.IVehicle {
	return m.view
}

// Count 获取当前车辆数
func (m *VehicleManager) Count() int {
	return len(m.vehicles)
}

// Prepare 准备阶段，提交所有车辆的snapshot
// 说明：各车辆snapshot提交互不依赖，并行执行
func (m *VehicleManager) Prepare() {
	parallel.GoFor(m.vehicles, func(v *Vehicle) { v.prepare() })
}

// Update 更新阶段，执行车辆运动、生成与移除
// 参数：dt-时间步长（秒）
// 算法说明：
// 1. 并行推进所有车辆（决策只读取他车snapshot，结果与遍历顺序无关）
// 2. 推进生成计时器，到期时将新车辆加入待加入列表
// 3. flush：移除越界车辆并应用新生成车辆，使传感器聚合读取到本tick
//    更新后的车辆集合
func (m *VehicleManager) Update(dt float64) {
	parallel.GoFor(m.vehicles, func(v *Vehicle) { v.update(dt) })
	m.spawner.update(dt)
	m.flush()
}

// add 申请生成一辆新车
// 功能：分配ID并加入待加入列表，flush时生效
// 返回：新创建的车辆实例
func (m *VehicleManager) add(
	class entity.VehicleClass,
	direction entity.Direction,
	position geometry.Point,
) *Vehicle {
	v := newVehicle(m.ctx, m.nextID, class, direction, position)
	m.nextID++
	m.pendingAdd = append(m.pendingAdd, v)
	return v
}

// SpawnAt 在指定位置直接生成一辆车
// 功能：供控制面与场景构造使用，绕过随机生成计时
// 返回：分配的车辆ID，生成在下一次flush时生效
func (m *VehicleManager) SpawnAt(
	class entity.VehicleClass,
	direction entity.Direction,
	position geometry.Point,
) int32 {
	return m.add(class, direction, position).id
}

// flush 应用延迟的移除与加入操作
// 算法说明：
// 1. 按越界标志过滤车辆列表，移除的车辆同时从ID映射中删除
// 2. 追加待加入列表中的新车辆
// 3. 重建对外暴露的车辆视图
func (m *VehicleManager) flush() {
	kept := m.vehicles[:0]
	for _, v := range m.vehicles {
		if v.runtime.OutOfBounds {
			delete(m.data, v.id)
			log.Debugf("vehicle %d left the simulation area at %v", v.id, v.runtime.XYZ)
		} else {
			kept = append(kept, v)
		}
	}
	m.vehicles = kept
	for _, v := range m.pendingAdd {
		m.vehicles = append(m.vehicles, v)
		m.data[v.id] = v
		log.Debugf("vehicle %d spawned: class=%v direction=%v", v.id, v.class, v.direction)
	}
	m.pendingAdd = m.pendingAdd[:0]
	m.view = lo.Map(m.vehicles, func(v *Vehicle, _ int) entity.IVehicle { return v })
}

// Reset 清空车辆集合并重置生成器
// 说明：ID从1重新分配，生成计时重新采样
func (m *VehicleManager) Reset() {
	m.data = make(map[int32]*Vehicle)
	m.vehicles = make([]*Vehicle, 0)
	m.view = make([]entity.IVehicle, 0)
	m.pendingAdd = make([]*Vehicle, 0)
	m.nextID = 1
	m.spawner.reset()
}
