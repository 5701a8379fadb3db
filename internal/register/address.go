package register

// Controller register map shared with the robot programs.
const (
	Program   = 1
	Process   = 9
	UserTool  = 18
	UserFrame = 19

	MovementParamBegin = 20
	PositionBegin      = 1

	EffectorReference = 150

	DrillingParamBegin    = 155
	DrillingFeedbackBegin = 166
	DrillingFeedbackSize  = 7
)
