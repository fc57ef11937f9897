package util

const (
	DateFormat = "2006-01-02"
)

// 存储后端类型
const (
	StorageLocal = "local"
	StorageMinio = "minio"
)
