package metadata

/** Definition for the entry point of a job. */
type JobStart func(params interface{}) (interface{}, error)

/** Definition for completion of a job. */
type JobOnComplete func(result interface{})

/** Definition for failure of a job. */
type JobOnFail func(params interface{}, err error)

/**
 * @brief Describes a job to be run.
 */
type JobTask struct {
	/** @brief Data to be passed to the entry point upon execution. */
	InputParams interface{}
	/** @brief Invoked when the job starts. Required. */
	OnStart JobStart
	/** @brief Invoked with the result of OnStart when it succeeds. Optional. */
	OnComplete JobOnComplete
	/** @brief Invoked with the input params and the error when OnStart fails. Optional. */
	OnFailure JobOnFail
	/** @brief Invoked after OnComplete or OnFailure. Optional. */
	OnCompletionCallback func()
}
