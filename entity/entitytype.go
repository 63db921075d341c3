package entity

import (
	"fmt"

	"git.fiblab.net/general/common/v2/geometry"
)

// Direction 行进方向
// 功能：表示车辆的固定行进方向，车辆生命周期内不变（不建模转向）
// 说明：地平面为X/Z，north沿-Z行进，south沿+Z，east沿+X，west沿-X
type Direction int32

const (
	DirectionNorth Direction = iota
	DirectionSouth
	DirectionEast
	DirectionWest
)

// ParseDirection 解析方向字符串
// 参数：s-方向名（north/south/east/west）
// 返回：方向枚举值，未知取值时返回错误
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "north":
		return DirectionNorth, nil
	case "south":
		return DirectionSouth, nil
	case "east":
		return DirectionEast, nil
	case "west":
		return DirectionWest, nil
	default:
		return 0, fmt.Errorf("entity: unknown direction %q", s)
	}
}

// String 获取方向的字符串表示
func (d Direction) String() string {
	switch d {
	case DirectionNorth:
		return "north"
	case DirectionSouth:
		return "south"
	case DirectionEast:
		return "east"
	case DirectionWest:
		return "west"
	default:
		return fmt.Sprintf("Direction(%d)", int32(d))
	}
}

// UnitXZ 获取行进方向在地平面上的单位向量
// 返回：X分量与Z分量
func (d Direction) UnitXZ() (float64, float64) {
	switch d {
	case DirectionNorth:
		return 0, -1
	case DirectionSouth:
		return 0, 1
	case DirectionEast:
		return 1, 0
	case DirectionWest:
		return -1, 0
	default:
		panic(fmt.Sprintf("entity: unknown direction %d", int32(d)))
	}
}

// VehicleClass 车辆类型
// 功能：决定车辆的最大速度与渲染尺寸
type VehicleClass int32

const (
	VehicleClassCar VehicleClass = iota
	VehicleClassTruck
	VehicleClassBus
)

// String 获取车辆类型的字符串表示
func (c VehicleClass) String() string {
	switch c {
	case VehicleClassCar:
		return "car"
	case VehicleClassTruck:
		return "truck"
	case VehicleClassBus:
		return "bus"
	default:
		return fmt.Sprintf("VehicleClass(%d)", int32(c))
	}
}

// MaxV 获取该车辆类型的最大速度（单位/秒）
func (c VehicleClass) MaxV() float64 {
	switch c {
	case VehicleClassCar:
		return 4.5
	case VehicleClassTruck:
		return 3.5
	case VehicleClassBus:
		return 3.0
	default:
		panic(fmt.Sprintf("entity: unknown vehicle class %d", int32(c)))
	}
}

// Length 获取该车辆类型的车身长度（渲染用）
func (c VehicleClass) Length() float64 {
	switch c {
	case VehicleClassCar:
		return 4
	case VehicleClassTruck:
		return 7
	case VehicleClassBus:
		return 10
	default:
		panic(fmt.Sprintf("entity: unknown vehicle class %d", int32(c)))
	}
}

// LightState 信号灯状态
// 说明：按green→yellow→red→green固定循环切换，不允许跳变
type LightState int32

const (
	LightStateGreen LightState = iota
	LightStateYellow
	LightStateRed
)

// ParseLightState 解析信号灯状态字符串
// 参数：s-状态名（green/yellow/red）
// 返回：状态枚举值，未知取值时返回错误
func ParseLightState(s string) (LightState, error) {
	switch s {
	case "green":
		return LightStateGreen, nil
	case "yellow":
		return LightStateYellow, nil
	case "red":
		return LightStateRed, nil
	default:
		return 0, fmt.Errorf("entity: unknown light state %q", s)
	}
}

// String 获取信号灯状态的字符串表示
func (s LightState) String() string {
	switch s {
	case LightStateGreen:
		return "green"
	case LightStateYellow:
		return "yellow"
	case LightStateRed:
		return "red"
	default:
		return fmt.Sprintf("LightState(%d)", int32(s))
	}
}

// Next 获取循环顺序中的下一个状态
func (s LightState) Next() LightState {
	switch s {
	case LightStateGreen:
		return LightStateYellow
	case LightStateYellow:
		return LightStateRed
	case LightStateRed:
		return LightStateGreen
	default:
		panic(fmt.Sprintf("entity: unknown light state %d", int32(s)))
	}
}

// entity/vehicle/vehicle.go的依赖倒置
type IVehicle interface {
	// 自身属性

	ID() int32                 // 获取车辆ID
	Direction() Direction      // 获取行进方向
	Class() VehicleClass       // 获取车辆类型
	MaxV() float64             // 获取最大速度
	Length() float64           // 获取车身长度（渲染用）

	// snapshot数据（上一tick提交的状态，供他车感知与外部读取）

	XYZ() geometry.Point // 获取位置坐标
	V() float64          // 获取当前速度
	IsStopped() bool     // 判断车辆是否处于停止状态

	// runtime数据（本tick更新后的状态，供传感器聚合使用）

	RuntimeXYZ() geometry.Point // 获取本tick更新后的位置
	RuntimeV() float64          // 获取本tick更新后的速度
	RuntimeIsStopped() bool     // 判断本tick更新后是否停止
}

// entity/signal/signal.go的依赖倒置
type ISignal interface {
	ID() int32            // 获取信号灯ID
	XYZ() geometry.Point  // 获取位置坐标（仅用于渲染）
	Approach() Direction  // 获取受控的行进方向
	State() LightState    // 获取snapshot状态
	TimeInState() float64 // 获取snapshot状态下已经过的时间（秒）

	RuntimeState() LightState // 获取本tick信控更新后的状态（机动车决策用）
}

// entity/sensor/sensor.go的依赖倒置
type ISensor interface {
	ID() int32           // 获取传感器ID
	XYZ() geometry.Point // 获取位置坐标
	Approach() Direction // 获取监测的行进方向
	Radius() float64     // 获取检测半径
	Active() bool        // 获取启用标志（仅影响展示层，不影响聚合计算）

	Count() int         // 获取检测范围内的车辆总数
	QueueLength() int   // 获取检测范围内处于停止状态的车辆数
	AvgSpeed() float64  // 获取检测范围内行驶车辆的平均速度（无行驶车辆时为0）
}
