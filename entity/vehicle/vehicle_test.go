package vehicle_test

import (
	"testing"

	"git.fiblab.net/general/common/v2/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/intersection-sim-oss/engine"
	"github.com/tsinghua-fib-lab/intersection-sim-oss/entity"
	"github.com/tsinghua-fib-lab/intersection-sim-oss/utils/config"
)

// newTestEngine 创建用于场景测试的引擎
// 自动生成间隔设置得足够大，测试内的车辆全部手工放置
func newTestEngine(t *testing.T, signals []config.Signal) *engine.Engine {
	c := config.Config{
		Control: config.Control{Seed: 1},
		Spawn:   config.Spawn{MinInterval: 1000, MaxInterval: 1001},
		Signals: signals,
	}
	e, err := engine.New(c)
	require.NoError(t, err)
	e.Start()
	return e
}

// admit 推进一个零间隔tick使手工放置的车辆入场
func admit(e *engine.Engine) {
	e.Step(0)
}

func vehicleByID(t *testing.T, e *engine.Engine, id int32) entity.IVehicle {
	v, err := e.VehicleManager().Get(id)
	require.NoError(t, err)
	return v
}

func TestFreeFlowMotion(t *testing.T) {
	e := newTestEngine(t, nil)
	// 无信控无前车，northbound以最大速度4.5沿-Z行驶
	id := e.SpawnVehicle(entity.VehicleClassCar, entity.DirectionNorth,
		geometry.Point{X: 2.5, Y: 0.5, Z: 50})
	admit(e)

	e.Step(1.0)
	v := vehicleByID(t, e, id)
	assert.InDelta(t, 4.5, v.RuntimeV(), 1e-9)
	assert.InDelta(t, 50-4.5, v.RuntimeXYZ().Z, 1e-9)
	assert.InDelta(t, 2.5, v.RuntimeXYZ().X, 1e-9)
	assert.False(t, v.RuntimeIsStopped())
}

func TestMinGapStopsTrailingVehicle(t *testing.T) {
	e := newTestEngine(t, nil)
	// 前车在Z=30，后车在Z=32.5：纵向间距2.5小于最小车距
	leader := e.SpawnVehicle(entity.VehicleClassCar, entity.DirectionNorth,
		geometry.Point{X: 2.5, Z: 30})
	trailer := e.SpawnVehicle(entity.VehicleClassCar, entity.DirectionNorth,
		geometry.Point{X: 2.5, Z: 32.5})
	admit(e)

	e.Step(0.5)
	assert.Equal(t, 0.0, vehicleByID(t, e, trailer).RuntimeV())
	assert.True(t, vehicleByID(t, e, trailer).RuntimeIsStopped())
	// 前车不受约束
	assert.InDelta(t, 4.5, vehicleByID(t, e, leader).RuntimeV(), 1e-9)
}

func TestFollowSpeedBands(t *testing.T) {
	cases := []struct {
		name string
		gap  float64
		want float64
	}{
		{"below min gap", 2.5, 0},
		{"band 0.2", 4, 0.2 * 4.5},
		{"band 0.5", 8, 0.5 * 4.5},
		{"band 0.7", 12, 0.7 * 4.5},
		{"out of view", 20, 4.5},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			e := newTestEngine(t, nil)
			e.SpawnVehicle(entity.VehicleClassCar, entity.DirectionNorth,
				geometry.Point{X: 2.5, Z: 30})
			trailer := e.SpawnVehicle(entity.VehicleClassCar, entity.DirectionNorth,
				geometry.Point{X: 2.5, Z: 30 + c.gap})
			admit(e)

			e.Step(0.01)
			assert.InDelta(t, c.want, vehicleByID(t, e, trailer).RuntimeV(), 1e-9)
		})
	}
}

func TestLaneSeparation(t *testing.T) {
	e := newTestEngine(t, nil)
	// 横向偏移超过车道宽度，不构成前后车关系
	a := e.SpawnVehicle(entity.VehicleClassCar, entity.DirectionNorth,
		geometry.Point{X: 2.5, Z: 30})
	b := e.SpawnVehicle(entity.VehicleClassCar, entity.DirectionNorth,
		geometry.Point{X: 6.5, Z: 34})
	admit(e)

	e.Step(0.1)
	assert.InDelta(t, 4.5, vehicleByID(t, e, a).RuntimeV(), 1e-9)
	assert.InDelta(t, 4.5, vehicleByID(t, e, b).RuntimeV(), 1e-9)
}

func TestOppositeDirectionIgnored(t *testing.T) {
	e := newTestEngine(t, nil)
	// 反向车辆不参与跟车判定
	north := e.SpawnVehicle(entity.VehicleClassCar, entity.DirectionNorth,
		geometry.Point{X: 2.5, Z: 32})
	e.SpawnVehicle(entity.VehicleClassCar, entity.DirectionSouth,
		geometry.Point{X: 2.5, Z: 30})
	admit(e)

	e.Step(0.01)
	assert.InDelta(t, 4.5, vehicleByID(t, e, north).RuntimeV(), 1e-9)
}

func redNorthSignal() []config.Signal {
	return []config.Signal{{
		ID:         1,
		Approach:   "north",
		Cycle:      config.SignalCycle{Green: 30, Yellow: 5, Red: 35},
		StartState: "red",
	}}
}

func TestSignalStopAndBrake(t *testing.T) {
	cases := []struct {
		name string
		z    float64
		want float64
	}{
		{"stop near intersection", 10, 0},
		{"brake in slow zone", 20, 0.2 * 4.5},
		{"outside detection zone", 50, 4.5},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			e := newTestEngine(t, redNorthSignal())
			id := e.SpawnVehicle(entity.VehicleClassCar, entity.DirectionNorth,
				geometry.Point{X: 2.5, Z: c.z})
			admit(e)

			e.Step(0.01)
			assert.InDelta(t, c.want, vehicleByID(t, e, id).RuntimeV(), 1e-9)
		})
	}
}

func TestGreenSignalDoesNotGate(t *testing.T) {
	signals := redNorthSignal()
	signals[0].StartState = "green"
	e := newTestEngine(t, signals)
	id := e.SpawnVehicle(entity.VehicleClassCar, entity.DirectionNorth,
		geometry.Point{X: 2.5, Z: 10})
	admit(e)

	e.Step(0.01)
	assert.InDelta(t, 4.5, vehicleByID(t, e, id).RuntimeV(), 1e-9)
}

func TestYellowSignalGates(t *testing.T) {
	signals := redNorthSignal()
	signals[0].StartState = "yellow"
	e := newTestEngine(t, signals)
	id := e.SpawnVehicle(entity.VehicleClassCar, entity.DirectionNorth,
		geometry.Point{X: 2.5, Z: 10})
	admit(e)

	e.Step(0.01)
	assert.Equal(t, 0.0, vehicleByID(t, e, id).RuntimeV())
}

func TestSignalOnlyGatesOwnApproach(t *testing.T) {
	e := newTestEngine(t, redNorthSignal())
	// 南向车辆不受北向信号灯控制
	id := e.SpawnVehicle(entity.VehicleClassCar, entity.DirectionSouth,
		geometry.Point{X: -2.5, Z: -20})
	admit(e)

	e.Step(0.01)
	assert.InDelta(t, 4.5, vehicleByID(t, e, id).RuntimeV(), 1e-9)
}

func TestBoundaryDespawn(t *testing.T) {
	e := newTestEngine(t, nil)
	id := e.SpawnVehicle(entity.VehicleClassCar, entity.DirectionNorth,
		geometry.Point{X: 2.5, Z: -99})
	admit(e)
	assert.Equal(t, 1, e.VehicleManager().Count())

	// 越界后当前tick内即被移除
	e.Step(1.0)
	assert.Equal(t, 0, e.VehicleManager().Count())
	_, err := e.VehicleManager().Get(id)
	assert.Error(t, err)
}

func TestBoundaryInvariant(t *testing.T) {
	e := newTestEngine(t, nil)
	for _, d := range []entity.Direction{
		entity.DirectionNorth, entity.DirectionSouth,
		entity.DirectionEast, entity.DirectionWest,
	} {
		e.SpawnVehicle(entity.VehicleClassCar, d, geometry.Point{X: 2.5, Z: -90})
	}
	admit(e)

	// 任意tick结束后store内不存在越界车辆
	for i := 0; i < 200; i++ {
		e.Step(0.5)
		for _, v := range e.VehicleManager().Vehicles() {
			pos := v.RuntimeXYZ()
			assert.LessOrEqual(t, pos.X, 100.0)
			assert.GreaterOrEqual(t, pos.X, -100.0)
			assert.LessOrEqual(t, pos.Z, 100.0)
			assert.GreaterOrEqual(t, pos.Z, -100.0)
		}
	}
	// 全部车辆最终离开仿真区域
	assert.Equal(t, 0, e.VehicleManager().Count())
}

func TestSpawnerProducesVehicles(t *testing.T) {
	c := config.Default()
	c.Spawn = config.Spawn{MinInterval: 1.5, MaxInterval: 3.0, MaxVehicles: 10}
	e, err := engine.New(c)
	require.NoError(t, err)
	e.Start()

	seen := make(map[int32]bool)
	for i := 0; i < 400; i++ {
		e.Step(0.1)
		assert.LessOrEqual(t, e.VehicleManager().Count(), 10)
		for _, v := range e.VehicleManager().Vehicles() {
			seen[v.ID()] = true
			assert.Contains(t, []entity.VehicleClass{
				entity.VehicleClassCar, entity.VehicleClassTruck, entity.VehicleClassBus,
			}, v.Class())
		}
	}
	// 40秒内至少生成了数辆车
	assert.GreaterOrEqual(t, len(seen), 5)
}

func TestSpacingInvariant(t *testing.T) {
	e := newTestEngine(t, redNorthSignal())
	// 同车道多辆车在红灯前排队，纵向间距始终为正
	ids := []int32{
		e.SpawnVehicle(entity.VehicleClassCar, entity.DirectionNorth, geometry.Point{X: 2.5, Z: 20}),
		e.SpawnVehicle(entity.VehicleClassCar, entity.DirectionNorth, geometry.Point{X: 2.5, Z: 28}),
		e.SpawnVehicle(entity.VehicleClassCar, entity.DirectionNorth, geometry.Point{X: 2.5, Z: 38}),
		e.SpawnVehicle(entity.VehicleClassCar, entity.DirectionNorth, geometry.Point{X: 2.5, Z: 52}),
	}
	admit(e)

	for i := 0; i < 300; i++ {
		e.Step(0.1)
		for j := 1; j < len(ids); j++ {
			ahead := vehicleByID(t, e, ids[j-1])
			behind := vehicleByID(t, e, ids[j])
			assert.Greater(t, behind.RuntimeXYZ().Z, ahead.RuntimeXYZ().Z,
				"vehicle %d overlaps vehicle %d at step %d", ids[j], ids[j-1], i)
		}
	}
}
