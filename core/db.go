package core

type DBOrdering struct {
	Field     string
	Ascending bool
}

func (ord DBOrdering) String() string {
	direction := "DESC"
	if ord.Ascending {
		direction = "ASC"
	}
	return ord.Field + " " + direction
}

// NewestFirst orders by created_at descending.
var NewestFirst = []DBOrdering{{Field: "created_at", Ascending: false}}
