package apimodel

type LibraryStatus struct {
	Size          int64 `json:"size"`
	CurrentIndex  int64 `json:"current_index"`
	ResidentCount int64 `json:"resident_count"`
	PreloadRadius int64 `json:"preload_radius"`
}

type ImageInfo struct {
	Index    int64  `json:"index"`
	Path     string `json:"path"`
	Filename string `json:"filename"`
}
