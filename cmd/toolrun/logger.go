package main

import "toolrun/internal/logger"

// log 复用全局 logger，标记 CLI 组件。
var log = logger.Named("cli")
