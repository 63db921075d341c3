package engine_test

import (
	"testing"

	"git.fiblab.net/general/common/v2/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/intersection-sim-oss/analytics"
	"github.com/tsinghua-fib-lab/intersection-sim-oss/engine"
	"github.com/tsinghua-fib-lab/intersection-sim-oss/entity"
	"github.com/tsinghua-fib-lab/intersection-sim-oss/utils/config"
)

// quietConfig 无自动生成的测试配置，车辆全部手工放置
func quietConfig() config.Config {
	c := config.Default()
	c.Spawn = config.Spawn{MinInterval: 1000, MaxInterval: 1001}
	return c
}

func newEngine(t *testing.T, c config.Config) *engine.Engine {
	e, err := engine.New(c)
	require.NoError(t, err)
	return e
}

func TestPauseFreezesSimulation(t *testing.T) {
	e := newEngine(t, quietConfig())

	// 未启动时Step不推进仿真时间
	e.Step(0.5)
	assert.Equal(t, 0.0, e.Clock().T)
	assert.False(t, e.IsRunning())

	e.Start()
	assert.True(t, e.IsRunning())
	e.Step(0.5)
	assert.Equal(t, 0.5, e.Clock().T)

	e.Pause()
	e.Step(0.5)
	assert.Equal(t, 0.5, e.Clock().T)

	// 继续后从暂停时刻推进
	e.Start()
	e.Step(0.5)
	assert.Equal(t, 1.0, e.Clock().T)
}

func TestReset(t *testing.T) {
	e := newEngine(t, quietConfig())
	e.Start()
	e.SpawnVehicle(entity.VehicleClassCar, entity.DirectionNorth, geometry.Point{X: 2.5, Z: 50})
	for i := 0; i < 20; i++ {
		e.Step(0.5)
	}
	require.NotZero(t, e.VehicleManager().Count())
	require.NotZero(t, e.Clock().T)
	require.NoError(t, e.SetSensorActive(1, false))

	e.Reset()

	assert.Equal(t, 0.0, e.Clock().T)
	assert.Equal(t, int32(0), e.Clock().Step)
	assert.Zero(t, e.VehicleManager().Count())
	assert.Empty(t, e.AnalyticsHistory())
	for _, s := range e.Signals() {
		assert.Equal(t, 0.0, s.TimeInState)
	}
	// 信号灯恢复到配置的初始状态
	north := e.SignalManager().GetByApproach(entity.DirectionNorth)
	require.NotNil(t, north)
	assert.Equal(t, entity.LightStateGreen, north.State())
	for _, s := range e.Sensors() {
		assert.True(t, s.Active)
		assert.Zero(t, s.VehicleCount)
	}
}

// congestedConfig 北向红灯加单个北向传感器的排队场景
func congestedConfig() config.Config {
	return config.Config{
		Control: config.Control{Seed: 1},
		Spawn:   config.Spawn{MinInterval: 1000, MaxInterval: 1001},
		Signals: []config.Signal{{
			ID:         1,
			Approach:   "north",
			Cycle:      config.SignalCycle{Green: 30, Yellow: 5, Red: 35},
			StartState: "red",
		}},
		Sensors: []config.Sensor{{
			ID:       1,
			Approach: "north",
			Position: config.Position{X: 2.5, Z: 25},
			Radius:   30,
		}},
	}
}

// spawnQueued 在红灯前并排放置n辆即刻停车的车辆
func spawnQueued(e *engine.Engine, n int) {
	xs := []float64{2.5, 5.5, -0.5}
	for i := 0; i < n; i++ {
		e.SpawnVehicle(entity.VehicleClassCar, entity.DirectionNorth,
			geometry.Point{X: xs[i], Z: 10})
	}
}

func TestSensorAggregation(t *testing.T) {
	e := newEngine(t, congestedConfig())
	e.Start()
	// 红灯前一辆停车、探测范围内一辆行驶、范围外一辆
	spawnQueued(e, 1)
	e.SpawnVehicle(entity.VehicleClassCar, entity.DirectionNorth, geometry.Point{X: 2.5, Z: 50})
	e.SpawnVehicle(entity.VehicleClassCar, entity.DirectionNorth, geometry.Point{X: 2.5, Z: 70})
	e.Step(0)
	e.Step(0.01)

	sensors := e.Sensors()
	require.Len(t, sensors, 1)
	assert.Equal(t, 2, sensors[0].VehicleCount)
	assert.Equal(t, 1, sensors[0].QueueLength)
	assert.InDelta(t, 4.5, sensors[0].AvgSpeed, 1e-9)

	// 探测范围内车辆总数 = 排队数 + 行驶数
	moving := 0
	for _, v := range e.VehicleManager().Vehicles() {
		pos := v.RuntimeXYZ()
		dx, dz := pos.X-2.5, pos.Z-25
		if dx*dx+dz*dz < 30*30 && !v.RuntimeIsStopped() {
			moving++
		}
	}
	assert.Equal(t, sensors[0].VehicleCount, sensors[0].QueueLength+moving)
}

func TestSensorToggle(t *testing.T) {
	e := newEngine(t, congestedConfig())
	e.Start()
	spawnQueued(e, 2)
	e.Step(0)
	e.Step(0.01)

	require.NoError(t, e.SetSensorActive(1, false))
	e.Step(0.01)
	sensors := e.Sensors()
	require.Len(t, sensors, 1)
	assert.False(t, sensors[0].Active)
	// 关闭后聚合计算照常进行
	assert.Equal(t, 2, sensors[0].QueueLength)

	assert.Error(t, e.SetSensorActive(99, false))
}

func TestAnalyticsSampleCadence(t *testing.T) {
	e := newEngine(t, quietConfig())
	e.Start()
	// 采样间隔1秒，0.25秒帧间隔下每4帧采样一次
	for i := 0; i < 8; i++ {
		e.Step(0.25)
	}
	history := e.AnalyticsHistory()
	require.Len(t, history, 2)
	assert.InDelta(t, 1.0, history[0].T, 1e-9)
	assert.InDelta(t, 2.0, history[1].T, 1e-9)
}

func TestAnalyticsEmptyIntersection(t *testing.T) {
	e := newEngine(t, quietConfig())
	e.Start()
	for i := 0; i < 4; i++ {
		e.Step(0.25)
	}

	snapshot, ok := e.LatestAnalytics()
	require.True(t, ok)
	assert.NotEmpty(t, snapshot.ID)
	assert.Equal(t, 0.0, snapshot.CongestionIndex)
	assert.Equal(t, "low", snapshot.CongestionLevel.String())
	assert.Equal(t, 100.0, snapshot.TrafficEfficiency)
	assert.Zero(t, snapshot.Throughput)
	assert.Equal(t, 0.0, snapshot.AvgWaitTime)
	// 默认配置下南北绿、东西红
	assert.InDelta(t, 0.5, snapshot.LightOptimization, 1e-9)
	assert.Equal(t, "traffic is flowing smoothly, no signal adjustment needed", snapshot.Recommendation)
}

func TestAnalyticsCongestedIntersection(t *testing.T) {
	e := newEngine(t, congestedConfig())
	e.Start()
	spawnQueued(e, 3)
	for i := 0; i < 5; i++ {
		e.Step(0.25)
	}

	snapshot, ok := e.LatestAnalytics()
	require.True(t, ok)
	// 单传感器3辆排队：平均排队3 → 指数30 → medium
	assert.InDelta(t, 30.0, snapshot.CongestionIndex, 1e-9)
	assert.Equal(t, "medium", snapshot.CongestionLevel.String())
	assert.InDelta(t, 3.0, snapshot.AvgQueueLength, 1e-9)
	assert.InDelta(t, 70.0, snapshot.TrafficEfficiency, 1e-9)
	assert.Equal(t, 3, snapshot.Throughput)
	assert.InDelta(t, 2.0, snapshot.AvgWaitTime, 1e-9)
	assert.Equal(t, int32(1), snapshot.BottleneckSensorID)
	assert.Contains(t, snapshot.Recommendation, "increase green duration of signal 1")
	assert.Contains(t, snapshot.Recommendation, "camera 1")
}

func TestCongestionGrowsWithQueue(t *testing.T) {
	sample := func(n int) analytics.Snapshot {
		e := newEngine(t, congestedConfig())
		e.Start()
		spawnQueued(e, n)
		for i := 0; i < 5; i++ {
			e.Step(0.25)
		}
		snapshot, ok := e.LatestAnalytics()
		require.True(t, ok)
		return snapshot
	}

	// 排队增长时拥堵指数不降、通行效率不升
	low := sample(1)
	high := sample(3)
	assert.Greater(t, high.CongestionIndex, low.CongestionIndex)
	assert.Less(t, high.TrafficEfficiency, low.TrafficEfficiency)
}

func TestAnalyticsHistoryEviction(t *testing.T) {
	c := quietConfig()
	c.Analytics = config.Analytics{SampleInterval: 0.1, HistorySize: 3}
	e := newEngine(t, c)
	e.Start()
	for i := 0; i < 10; i++ {
		e.Step(0.1)
	}

	history := e.AnalyticsHistory()
	require.Len(t, history, 3)
	// 保留最新的快照，时间单调递增
	for i := 1; i < len(history); i++ {
		assert.Greater(t, history[i].T, history[i-1].T)
	}
	latest, ok := e.LatestAnalytics()
	require.True(t, ok)
	assert.Equal(t, history[2].ID, latest.ID)
	assert.InDelta(t, 1.0, latest.T, 1e-9)
}

func TestViews(t *testing.T) {
	e := newEngine(t, quietConfig())
	e.Start()
	e.SpawnVehicle(entity.VehicleClassBus, entity.DirectionEast, geometry.Point{X: -70, Z: -2.5})
	e.Step(0)
	e.Step(0.5)

	signals := e.Signals()
	assert.Len(t, signals, 4)
	for _, s := range signals {
		assert.Contains(t, []entity.LightState{
			entity.LightStateGreen, entity.LightStateYellow, entity.LightStateRed,
		}, s.State)
	}

	vehicles := e.Vehicles()
	require.Len(t, vehicles, 1)
	assert.Equal(t, entity.VehicleClassBus, vehicles[0].Class)
	assert.Equal(t, entity.DirectionEast, vehicles[0].Direction)
	assert.Equal(t, 3.0, vehicles[0].MaxSpeed)
	assert.Equal(t, 10.0, vehicles[0].Length)

	// 探测范围内无车辆时聚合结果为零值，不报错
	sensors := e.Sensors()
	assert.Len(t, sensors, 4)
	for _, s := range sensors {
		assert.Equal(t, 30.0, s.Radius)
		assert.True(t, s.Active)
		assert.Zero(t, s.QueueLength)
		assert.Equal(t, 0.0, s.AvgSpeed)
	}
}
