// 随机数引擎，包装了golang.org/x/exp/rand，提供仿真所需的随机数生成方法
package randengine

import (
	"log"

	"golang.org/x/exp/rand"
)

// Engine 随机数引擎
// 功能：为生成车辆与出生计时提供可复现的随机数序列
// 说明：基于golang.org/x/exp/rand库，同一种子下序列完全确定
type Engine struct {
	*rand.Rand // 底层随机数生成器
}

// New 创建随机数引擎
// 功能：使用给定种子初始化一个新的随机数引擎实例
// 参数：seed-随机数种子
// 返回：随机数引擎指针
func New(seed uint64) *Engine {
	return &Engine{Rand: rand.New(rand.NewSource(seed))}
}

// DiscreteDistribution 按给定概率分布生成随机数
// 功能：根据权重数组生成离散分布的随机索引
// 参数：weight-权重数组，每个元素表示对应索引的概率权重
// 返回：随机生成的索引值（0到len(weight)-1）
// 算法说明：
// 1. 计算总权重并在[0, 总权重)范围内生成随机数
// 2. 遍历权重数组累积概率，返回第一个累积值超过随机数的索引
// 3. 如果算法异常则panic
func (e *Engine) DiscreteDistribution(weight []float64) int32 {
	random := .0
	for _, w := range weight {
		random += w
	}
	random *= e.Float64()
	sum := 0.
	for i, w := range weight {
		sum += w
		if sum > random {
			return int32(i)
		}
	}
	log.Panicf("randengine: DiscreteDistribution: sum: %f random: %f", sum, random)
	return -1
}

// UniformRange 在[low, high)范围内生成均匀分布的随机浮点数
// 功能：为出生间隔等区间型参数提供均匀采样
// 参数：low-下界，high-上界
// 返回：采样结果
func (e *Engine) UniformRange(low, high float64) float64 {
	return low + (high-low)*e.Float64()
}

// PTrue 以指定概率返回true
// 功能：根据给定概率返回布尔值，实现伯努利分布
// 参数：p-返回true的概率（0.0到1.0之间）
// 返回：true或false
func (e *Engine) PTrue(p float64) bool {
	return e.Float64() < p
}
