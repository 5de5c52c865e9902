// Package main 启动应用程序
package main

import "github.com/yeisme/recvault/pkg/cmd"

//	@title			RecVault API
//	@version		1.0
//	@description	RecVault 管理面试录制的存储、保留期策略与到期自动清理.

//	@license.name	MIT
//	@license.url	https://opensource.org/license/mit/

func main() {
	if err := cmd.Execute(); err != nil {
		panic(err)
	}
}
