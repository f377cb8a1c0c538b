// Package lib 包含基础设施工具库
//
// 本目录包含与总线组件无关的通用工具：
//
//   - log: 按组件区分级别的日志封装
//
// # 与 pkg/ 其他目录的关系
//
//   - interfaces/: 总线公共接口
//   - lib/: 基础设施工具库（本目录）
//
// # 使用示例
//
//	import "github.com/dep2p/go-eventbus/pkg/lib/log"
//
//	var logger = log.Logger("core/dispatch")
package lib
