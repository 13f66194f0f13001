package utils

import (
	"github.com/duke-git/lancet/v2/maputil"
	"github.com/duke-git/lancet/v2/slice"
)

// MapMerge 合并，后面的键覆盖前面的
func MapMerge[K comparable, V any](maps ...map[K]V) map[K]V {
	return maputil.Merge(maps...)
}

// SliceUnique 去重，保留首次出现的顺序
func SliceUnique[T comparable](s []T) []T {
	return slice.Unique(s)
}

func SliceFilter[T any](s []T, fn func(index int, item T) bool) []T {
	return slice.Filter(s, fn)
}

func SliceMap[T any, U any](s []T, fn func(index int, item T) U) []U {
	return slice.Map(s, fn)
}

// SliceFind 第一个满足条件的元素
func SliceFind[T any](s []T, fn func(index int, item T) bool) (*T, bool) {
	v, ok := slice.FindBy(s, fn)
	if !ok {
		return nil, false
	}
	return &v, true
}
