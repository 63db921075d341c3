package vehicle

import (
	"git.fiblab.net/general/common/v2/geometry"
	"github.com/tsinghua-fib-lab/intersection-sim-oss/entity"
)

const (
	laneOffset     = 2.5 // 车道中心线相对行进轴线的横向偏移（米）
	entryMargin    = 5   // 出生点相对仿真区域边界向内的距离（米）
	vehicleYOffset = 0.5 // 车辆渲染用的垂直偏移（米），对仿真逻辑无意义
)

// classWeights 车辆类型的生成权重，下标与VehicleClass枚举一致
// 说明：小汽车最常见，公交车最少
var classWeights = []float64{0.7, 0.2, 0.1}

// spawnDirections 出生方向的轮询表，每次生成时等概率抽取
var spawnDirections = []entity.Direction{
	entity.DirectionNorth,
	entity.DirectionSouth,
	entity.DirectionEast,
	entity.DirectionWest,
}

// spawner 车辆生成器
// 功能：按随机间隔在四个固定入口生成新车辆
// 说明：不做出生位置碰撞检查，入口远离拥堵区域，重叠概率可忽略
type spawner struct {
	m *VehicleManager

	cooldown float64 // 距下一次生成的剩余时间（秒）
}

// newSpawner 创建车辆生成器
// 参数：m-所属车辆管理器
// 返回：生成器实例，出生计时由reset初始化
func newSpawner(m *VehicleManager) *spawner {
	return &spawner{m: m}
}

// entryPoint 获取指定行进方向的入口出生点
// 功能：出生点位于该方向车道上、仿真区域边界向内entryMargin处
// 参数：d-行进方向
// 返回：出生点坐标
func (s *spawner) entryPoint(d entity.Direction) geometry.Point {
	entry := s.m.ctx.RuntimeConfig().C.Boundary - entryMargin
	switch d {
	case entity.DirectionNorth:
		return geometry.Point{X: laneOffset, Y: vehicleYOffset, Z: entry}
	case entity.DirectionSouth:
		return geometry.Point{X: -laneOffset, Y: vehicleYOffset, Z: -entry}
	case entity.DirectionEast:
		return geometry.Point{X: -entry, Y: vehicleYOffset, Z: laneOffset}
	case entity.DirectionWest:
		return geometry.Point{X: entry, Y: vehicleYOffset, Z: -laneOffset}
	default:
		log.Panicf("spawner: unknown direction %v", d)
		return geometry.Point{}
	}
}

// update 推进生成计时
// 功能：计时到期时生成一辆新车并重新采样下一次生成间隔
// 参数：dt-时间步长（秒）
// 算法说明：
// 1. 扣减剩余时间，未到期则返回
// 2. 车辆数达到配置上限时跳过本次生成，仅重置计时
// 3. 等概率抽取入口方向，按权重分布抽取车辆类型
// 4. 生成间隔从[min_interval, max_interval)均匀采样
func (s *spawner) update(dt float64) {
	s.cooldown -= dt
	if s.cooldown > 0 {
		return
	}
	cfg := s.m.ctx.RuntimeConfig().All.Spawn
	generator := s.m.ctx.Generator()
	s.cooldown = generator.UniformRange(cfg.MinInterval, cfg.MaxInterval)
	if cfg.MaxVehicles > 0 && s.m.Count()+len(s.m.pendingAdd) >= cfg.MaxVehicles {
		return
	}
	direction := spawnDirections[generator.Intn(len(spawnDirections))]
	class := entity.VehicleClass(generator.DiscreteDistribution(classWeights))
	s.m.add(class, direction, s.entryPoint(direction))
}

// reset 重置生成计时
// 说明：Reset后首次生成间隔重新采样
func (s *spawner) reset() {
	cfg := s.m.ctx.RuntimeConfig().All.Spawn
	s.cooldown = s.m.ctx.Generator().UniformRange(cfg.MinInterval, cfg.MaxInterval)
}
