package tracker

type PeerInfo struct {
	Id   string
	IP   string
	Port uint16
}

type TrackerResponse struct {
	Peers       []PeerInfo
	Interval    int64
	MinInterval int64
	Complete    int64
	Incomplete  int64
}

var nil_resp TrackerResponse
var nil_info []PeerInfo
