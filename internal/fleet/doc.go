// Package fleet 实现车队指标计算：车辆与统计数据关联、里程强度、
// 按列排序、派生指标（英里、日均、保养剩余天数）以及导出。
//
// 包内所有函数均为同步纯计算，不做 I/O。数值边界（除零、缺失天数）
// 以 NaN/±Inf 的形式传播，不返回错误。
package fleet
