package catalog

// Quality is one step of the quality chain. Normal is level 0 and every
// quality points at the next better one (nil at the top of the chain).
type Quality struct {
	name   string
	level  int
	next   *Quality
	normal *Quality
}

func (q *Quality) Name() string { return q.name }
func (q *Quality) TypeName() string { return "quality" }
func (q *Quality) Level() int { return q.level }
func (q *Quality) Next() *Quality { return q.next }
func (q *Quality) IsNormal() bool { return q.level == 0 }

// Normal returns the level 0 quality of the chain
func (q *Quality) Normal() *Quality {
	if q.normal == nil {
		return q
	}
	return q.normal
}

// SpeedMultiplier is the crafting speed bonus a crafter of this quality gets
func (q *Quality) SpeedMultiplier() float64 {
	return 1 + 0.3*float64(q.level)
}

// Less orders qualities by level
func (q *Quality) Less(other *Quality) bool {
	return q.level < other.level
}
