package webpath

const (
	Home = "/"

	Api        = "/api"
	ApiScore   = Api + "/score"
	ApiMatches = Api + "/matches"
	ApiEvent   = Api + "/event"
	ApiStorage = Api + "/storage"
)

func Path() map[string]string {
	return map[string]string{
		"Home":       Home,
		"Api":        Api,
		"ApiScore":   ApiScore,
		"ApiMatches": ApiMatches,
		"ApiEvent":   ApiEvent,
		"ApiStorage": ApiStorage,
	}
}
