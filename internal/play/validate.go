package play

import (
	"fmt"
	"sort"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Validate checks a play against the game rules: exactly five distinct white
// balls in [1,69] and a powerball in [1,26]. On success the white list is
// sorted ascending in place. The powerball may equal a white ball; the pools
// are separate.
func Validate(p *Play) error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("invalid play: %w", err)
	}
	sort.Ints(p.White)
	return nil
}
