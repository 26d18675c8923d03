package config

import (
	"strconv"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	moving_median "github.com/simonks2016/moving_median"
)

// WindowSize 接受命令行或 YAML 里的任意标量，
// 不是有限正整数的一律返回 moving_median.ErrInvalidConfiguration
type WindowSize int

// String flag.Value
func (w *WindowSize) String() string {
	return strconv.Itoa(int(*w))
}

// Set flag.Value
func (w *WindowSize) Set(s string) error {
	size, err := moving_median.ParseWindowSize(s)
	if err != nil {
		return err
	}
	*w = WindowSize(size)
	return nil
}

// UnmarshalYAML yaml.Unmarshaler
func (w *WindowSize) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return errors.Wrapf(moving_median.ErrInvalidConfiguration, "window size must be a number, got %s", node.ShortTag())
	}
	return w.Set(node.Value)
}

// MarshalYAML yaml.Marshaler
func (w WindowSize) MarshalYAML() (interface{}, error) {
	return int(w), nil
}
