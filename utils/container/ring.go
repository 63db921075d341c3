package container

// Ring 固定容量环形缓冲区
// 功能：保存最近N个元素，超出容量时自动淘汰最旧的元素
// 说明：用于指标快照历史等只关心近期数据的场景，零值不可用，需通过NewRing创建
type Ring[T any] struct {
	data  []T // 底层存储
	start int // 最旧元素的下标
	size  int // 当前元素个数
}

// NewRing 创建环形缓冲区
// 功能：初始化一个容量为capacity的环形缓冲区
// 参数：capacity-最大保存元素个数，必须为正数
// 返回：环形缓冲区指针
func NewRing[T any](capacity int) *Ring[T] {
	if capacity <= 0 {
		panic("container: ring capacity must be positive")
	}
	return &Ring[T]{data: make([]T, capacity)}
}

// Push 追加元素
// 功能：将元素追加到缓冲区末尾，容量已满时淘汰最旧的元素
// 参数：value-要追加的元素
func (r *Ring[T]) Push(value T) {
	end := (r.start + r.size) % len(r.data)
	r.data[end] = value
	if r.size < len(r.data) {
		r.size++
	} else {
		r.start = (r.start + 1) % len(r.data)
	}
}

// Len 获取当前元素个数
func (r *Ring[T]) Len() int {
	return r.size
}

// Cap 获取缓冲区容量
func (r *Ring[T]) Cap() int {
	return len(r.data)
}

// Latest 获取最新追加的元素
// 返回：最新元素与是否存在标志，缓冲区为空时返回零值和false
func (r *Ring[T]) Latest() (T, bool) {
	if r.size == 0 {
		var zero T
		return zero, false
	}
	return r.data[(r.start+r.size-1)%len(r.data)], true
}

// Items 按从旧到新的顺序导出所有元素
// 返回：元素切片副本，修改返回值不影响缓冲区内容
func (r *Ring[T]) Items() []T {
	items := make([]T, 0, r.size)
	for i := 0; i < r.size; i++ {
		items = append(items, r.data[(r.start+i)%len(r.data)])
	}
	return items
}

// Clear 清空缓冲区
// 说明：容量保持不变，底层存储复用
func (r *Ring[T]) Clear() {
	r.start = 0
	r.size = 0
}
