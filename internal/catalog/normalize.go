package catalog

// NormalizeScores sets every option delta to 1, both score_value and each
// entry of scores. It returns the number of deltas rewritten.
func (c *Catalog) NormalizeScores() int {
	n := 0
	for i := range c.Questions {
		for j := range c.Questions[i].Options {
			o := &c.Questions[i].Options[j]
			for k := range o.Scores {
				o.Scores[k] = 1
				n++
			}
			if o.ScoreValue != nil {
				one := 1.0
				o.ScoreValue = &one
				n++
			}
		}
	}
	return n
}
