package vehicle

import (
	"git.fiblab.net/general/common/v2/mathutil"
	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/intersection-sim-oss/entity"
)

const (
	// 信控检测区参数

	signalZoneNear    = 2  // 距路口中心小于该值视为已进入路口，不再受信控约束（米）
	signalZoneFar     = 40 // 信控检测区沿行进方向的远端（米）
	signalLateralBand = 6  // 信控检测区的横向半宽（米）

	brakeStopDistance = 15  // 距原点小于该值且需要停车时速度置0（米）
	brakeSlowDistance = 30  // 距原点小于该值且需要停车时减速行驶（米）
	brakingVRatio     = 0.2 // 减速行驶时相对最大速度的比例

	// 前车感知参数

	aheadViewDistance = 15 // 前车感知距离（米）
	laneWidth         = 2  // 同车道判定的横向偏移上限（米）
	minGap            = 3  // 最小车距，小于该值时速度置0（米）

	// stoppedVThreshold 停止判定速度阈值
	// 功能：解算速度不超过该值时认为车辆处于停止状态（刹车灯展示用）
	stoppedVThreshold = 0.5
)

// followBands 跟车速度分段表
// 说明：按与前车的纵向间距从小到大排列，间距落入某段时速度取
// 最大速度乘以该段比例，超出感知距离后不再受前车约束
var followBands = []struct {
	Gap   float64 // 间距上限（米），不含
	Ratio float64 // 相对最大速度的比例
}{
	{minGap, 0},
	{6, 0.2},
	{10, 0.5},
	{aheadViewDistance, 0.7},
}

// Action 车辆动作结构体
// 功能：描述速度决策的结果，多策略间取最保守值
type Action struct {
	V float64 // 本tick解算速度（米/秒）

	AheadVDistance float64 // 到前方车辆的距离（米），-1表示无前车
}

// Update 更新车辆动作
// 功能：采用取最小的方式合并速度决策，处理多个策略的冲突
// 参数：others-其他动作列表
func (a *Action) Update(others ...Action) {
	for _, o := range others {
		if o.V < a.V {
			a.V = o.V
		}
	}
}

// controller 车辆速度控制器
// 功能：根据信控状态与前车间距解算本tick速度
// 说明：不做连续加速度积分，采用离散分段速度近似跟车与制动行为
type controller struct {
	self *Vehicle // 模块所在车辆
	maxV float64  // 最大速度
}

// newController 创建新的车辆控制器
// 参数：self-车辆实体
// 返回：初始化完成的控制器实例
func newController(self *Vehicle) *controller {
	return &controller{
		self: self,
		maxV: self.maxV,
	}
}

// update 执行速度决策
// 返回：合并后的动作
// 算法说明：
// 1. 初始速度置为无穷大（表示无约束）
// 2. 依次合并信控策略与跟车策略的速度候选
// 3. 将结果收敛到[0, maxV]，无任何约束时即为自由流速度
func (c *controller) update() (ac Action) {
	ac.V = mathutil.INF
	ac.AheadVDistance = -1

	ac.Update(c.policySignal())
	aheadAc, aheadDistance := c.policyAhead()
	ac.Update(aheadAc)
	ac.AheadVDistance = aheadDistance

	ac.V = lo.Clamp(ac.V, 0, c.maxV)
	return
}

// approachDistance 获取沿行进方向到路口中心的剩余距离
// 返回：剩余距离（米），负值表示已越过路口中心
func (c *controller) approachDistance() float64 {
	ux, uz := c.self.direction.UnitXZ()
	pos := c.self.runtime.XYZ
	return -(pos.X*ux + pos.Z*uz)
}

// lateralOffset 获取相对行进轴线的横向偏移
// 返回：横向偏移（米），带符号
func (c *controller) lateralOffset() float64 {
	ux, uz := c.self.direction.UnitXZ()
	pos := c.self.runtime.XYZ
	return pos.X*uz - pos.Z*ux
}

// policySignal 策略1：信控策略
// 功能：根据本方向信号灯状态决定是否停车或减速
// 返回：ac-速度候选，无约束时速度为无穷大
// 算法说明：
// 1. 查找控制本行进方向的信号灯，不存在或为绿灯时跳过
// 2. 仅当车辆位于信控检测区内（路口近侧的纵向区间与横向带）时受约束
// 3. 距路口中心小于停车阈值时速度置0，小于减速阈值时按比例减速
func (c *controller) policySignal() (ac Action) {
	ac.V = mathutil.INF

	s := c.self.ctx.SignalManager().GetByApproach(c.self.direction)
	if s == nil {
		return
	}
	if s.RuntimeState() == entity.LightStateGreen {
		return
	}
	remaining := c.approachDistance()
	if remaining < signalZoneNear || remaining > signalZoneFar {
		return
	}
	if lat := c.lateralOffset(); lat > signalLateralBand || lat < -signalLateralBand {
		return
	}
	if remaining < brakeStopDistance {
		ac.V = 0
	} else if remaining < brakeSlowDistance {
		ac.V = brakingVRatio * c.maxV
	}
	return
}

// policyAhead 策略2：前车跟车策略
// 功能：感知同车道最近前车并按间距分段限制速度
// 返回：ac-速度候选，aheadDistance-最近前车间距（-1表示无前车）
// 算法说明：
// 1. 遍历store内全部车辆（读取snapshot位置，保证与遍历顺序无关）
// 2. 同向、横向偏移小于车道宽、纵向在前且间距不超过感知距离的车辆视为前车
// 3. 取最近前车，按间距查分段表得到速度比例
// 说明：车辆规模为几十辆，O(n²)扫描可接受，不建立空间索引
func (c *controller) policyAhead() (ac Action, aheadDistance float64) {
	ac.V = mathutil.INF
	aheadDistance = -1

	ux, uz := c.self.direction.UnitXZ()
	pos := c.self.runtime.XYZ
	for _, other := range c.self.ctx.VehicleManager().Vehicles() {
		if other.ID() == c.self.id || other.Direction() != c.self.direction {
			continue
		}
		otherPos := other.XYZ()
		dx := otherPos.X - pos.X
		dz := otherPos.Z - pos.Z
		gap := dx*ux + dz*uz
		if gap <= 0 || gap > aheadViewDistance {
			continue
		}
		if lat := dx*uz - dz*ux; lat >= laneWidth || lat <= -laneWidth {
			continue
		}
		if aheadDistance < 0 || gap < aheadDistance {
			aheadDistance = gap
		}
	}
	if aheadDistance < 0 {
		return
	}
	for _, band := range followBands {
		if aheadDistance < band.Gap {
			ac.V = band.Ratio * c.maxV
			return
		}
	}
	ac.V = 0.7 * c.maxV
	return
}
