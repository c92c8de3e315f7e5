package model

// Todo is a single entry of the local list.
// ID is creation time in Unix milliseconds, bumped when it would collide.
type Todo struct {
	ID        int64  `json:"id"`
	Period    string `json:"period"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
	Author    string `json:"author,omitempty"`
}

// Group is every todo sharing one period label, in list order.
type Group struct {
	Period string
	Todos  []Todo
}

// Section is a run of items sharing one period label.
type Section[T any] struct {
	Period string
	Items  []T
}

// GroupFunc partitions items by the label period returns. Sections appear
// in order of the first occurrence of their label; items keep their
// relative order.
func GroupFunc[T any](items []T, period func(T) string) []Section[T] {
	var sections []Section[T]
	index := make(map[string]int)
	for _, it := range items {
		p := period(it)
		i, ok := index[p]
		if !ok {
			i = len(sections)
			index[p] = i
			sections = append(sections, Section[T]{Period: p})
		}
		sections[i].Items = append(sections[i].Items, it)
	}
	return sections
}

// GroupByPeriod partitions todos by period, ordered as GroupFunc does.
func GroupByPeriod(todos []Todo) []Group {
	sections := GroupFunc(todos, func(t Todo) string { return t.Period })
	groups := make([]Group, 0, len(sections))
	for _, s := range sections {
		groups = append(groups, Group{Period: s.Period, Todos: s.Items})
	}
	return groups
}

// Stats counts completed and pending todos.
func Stats(todos []Todo) (done, pending int) {
	for _, t := range todos {
		if t.Completed {
			done++
		} else {
			pending++
		}
	}
	return
}
