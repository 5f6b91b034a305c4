package calc

import (
	"fmt"
	"slices"
)

// Function is one of the supported aggregate functions.
type Function int

const (
	Sum Function = iota + 1
	Average
	Max
	Min
	Count
	Median
	Product
)

var functionNames = map[Function]string{
	Sum:     "SUM",
	Average: "AVERAGE",
	Max:     "MAX",
	Min:     "MIN",
	Count:   "COUNT",
	Median:  "MEDIAN",
	Product: "PRODUCT",
}

// Functions lists every supported function in display order.
func Functions() []Function {
	return []Function{Sum, Average, Max, Min, Count, Median, Product}
}

func (f Function) String() string {
	if name, ok := functionNames[f]; ok {
		return name
	}
	return fmt.Sprintf("Function(%d)", int(f))
}

// LookupFunction resolves an upper-case function name.
func LookupFunction(name string) (Function, error) {
	for f, n := range functionNames {
		if n == name {
			return f, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedFunction, name)
}

// Aggregate reduces coerced cell values to a single number.
func (f Function) Aggregate(values []Value) (float64, error) {
	switch f {
	case Sum:
		return sum(values), nil
	case Average:
		if len(values) == 0 {
			return 0, fmt.Errorf("%v: %w", f, ErrEmptyRange)
		}
		return sum(values) / float64(len(values)), nil
	case Max:
		if len(values) == 0 {
			return 0, fmt.Errorf("%v: %w", f, ErrEmptyRange)
		}
		maxVal := values[0].Number
		for _, v := range values[1:] {
			if v.Number > maxVal {
				maxVal = v.Number
			}
		}
		return maxVal, nil
	case Min:
		if len(values) == 0 {
			return 0, fmt.Errorf("%v: %w", f, ErrEmptyRange)
		}
		minVal := values[0].Number
		for _, v := range values[1:] {
			if v.Number < minVal {
				minVal = v.Number
			}
		}
		return minVal, nil
	case Count:
		count := 0
		for _, v := range values {
			if v.IsNumber {
				count++
			}
		}
		return float64(count), nil
	case Median:
		if len(values) == 0 {
			return 0, fmt.Errorf("%v: %w", f, ErrEmptyRange)
		}
		nums := make([]float64, len(values))
		for i, v := range values {
			nums[i] = v.Number
		}
		slices.Sort(nums)
		mid := len(nums) / 2
		if len(nums)%2 == 1 {
			return nums[mid], nil
		}
		return (nums[mid-1] + nums[mid]) / 2, nil
	case Product:
		product := 1.0
		for _, v := range values {
			product *= v.Number
		}
		return product, nil
	}
	return 0, fmt.Errorf("%w: %v", ErrUnsupportedFunction, f)
}

func sum(values []Value) float64 {
	total := 0.0
	for _, v := range values {
		total += v.Number
	}
	return total
}
