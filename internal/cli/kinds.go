package cli

import (
	"fmt"
	"strings"

	"github.com/mrlokans/clipcatalog/internal/catalog"
	"github.com/mrlokans/clipcatalog/internal/entities"
)

// newEntity returns an empty entity of the named kind.
func newEntity(kind string) (catalog.Entity, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "clip":
		return &entities.Clip{}, nil
	case "producer":
		return &entities.Producer{}, nil
	case "show":
		return &entities.Show{}, nil
	case "producer-show":
		return &entities.ProducerShow{}, nil
	case "selected-clip":
		return &entities.SelectedClip{}, nil
	}
	return nil, fmt.Errorf("unknown entity type %q (want clip, producer, show, producer-show or selected-clip)", kind)
}
