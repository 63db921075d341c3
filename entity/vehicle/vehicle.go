package vehicle

import (
	"math"

	"git.fiblab.net/general/common/v2/geometry"
	"github.com/tsinghua-fib-lab/intersection-sim-oss/entity"
)

// vehicleRuntime 车辆运行时数据结构
// 功能：存储车辆每tick变化的状态
type vehicleRuntime struct {
	XYZ         geometry.Point // 位置坐标
	V           float64        // 当前速度（米/秒）
	IsStopped   bool           // 是否处于停止状态
	OutOfBounds bool           // 是否越出仿真区域边界，待移除标志
}

// Vehicle 车辆实体
// 功能：管理车辆的属性与状态，行进方向与车辆类型在生命周期内不变
type Vehicle struct {
	ctx entity.ITaskContext

	id         int32
	class      entity.VehicleClass
	direction  entity.Direction
	maxV       float64
	controller *controller

	snapshot vehicleRuntime // snapshot，用于保存对外输出的数据
	runtime  vehicleRuntime // 运行时数据
}

// newVehicle 创建车辆实体
// 功能：初始化车辆属性与控制器，初始速度为该类型的最大速度
// 参数：ctx-任务上下文，id-车辆ID，class-车辆类型，direction-行进方向，position-出生位置
// 返回：初始化完成的车辆实例
func newVehicle(
	ctx entity.ITaskContext,
	id int32,
	class entity.VehicleClass,
	direction entity.Direction,
	position geometry.Point,
) *Vehicle {
	v := &Vehicle{
		ctx:       ctx,
		id:        id,
		class:     class,
		direction: direction,
		maxV:      class.MaxV(),
	}
	v.runtime = vehicleRuntime{XYZ: position, V: v.maxV}
	// 首次prepare之前snapshot即为出生状态
	v.snapshot = v.runtime
	v.controller = newController(v)
	return v
}

// prepare 准备阶段，将运行时数据写入snapshot
func (v *Vehicle) prepare() {
	v.snapshot = v.runtime
}

// update 更新车辆状态
// 功能：解算本tick速度并推进位置，检查是否越出仿真区域
// 参数：dt-时间步长（秒）
// 算法说明：
// 1. 控制器解算速度（信控约束与前车间距约束取最保守值）
// 2. 更新停止判定标志
// 3. 沿固定行进方向推进位置：position += v×dt
// 4. 越界检查：任一地平面坐标绝对值超过边界时标记待移除
func (v *Vehicle) update(dt float64) {
	ac := v.controller.update()
	v.runtime.V = ac.V
	v.runtime.IsStopped = ac.V <= stoppedVThreshold

	ux, uz := v.direction.UnitXZ()
	v.runtime.XYZ.X += ux * ac.V * dt
	v.runtime.XYZ.Z += uz * ac.V * dt

	boundary := v.ctx.RuntimeConfig().C.Boundary
	v.runtime.OutOfBounds = math.Abs(v.runtime.XYZ.X) > boundary ||
		math.Abs(v.runtime.XYZ.Z) > boundary
}

// ID 获取车辆ID
func (v *Vehicle) ID() int32 {
	return v.id
}

// Direction 获取行进方向
func (v *Vehicle) Direction() entity.Direction {
	return v.direction
}

// Class 获取车辆类型
func (v *Vehicle) Class() entity.VehicleClass {
	return v.class
}

// MaxV 获取最大速度
func (v *Vehicle) MaxV() float64 {
	return v.maxV
}

// Length 获取车身长度（渲染用）
func (v *Vehicle) Length() float64 {
	return v.class.Length()
}

// XYZ 获取snapshot位置坐标
func (v *Vehicle) XYZ() geometry.Point {
	return v.snapshot.XYZ
}

// V 获取snapshot速度
func (v *Vehicle) V() float64 {
	return v.snapshot.V
}

// IsStopped 判断snapshot状态下车辆是否停止
func (v *Vehicle) IsStopped() bool {
	return v.snapshot.IsStopped
}

// RuntimeXYZ 获取本tick更新后的位置
func (v *Vehicle) RuntimeXYZ() geometry.Point {
	return v.runtime.XYZ
}

// RuntimeV 获取本tick更新后的速度
func (v *Vehicle) RuntimeV() float64 {
	return v.runtime.V
}

// RuntimeIsStopped 判断本tick更新后车辆是否停止
func (v *Vehicle) RuntimeIsStopped() bool {
	return v.runtime.IsStopped
}
