package redisimpls

import "github.com/go-redis/redis/v8"

const replyIDExists = "id exists"

var saveReportScript = redis.NewScript(`
		local idKey = KEYS[1]
		local createdAtKey = KEYS[2]

		local vId = ARGV[1]
		local vData = ARGV[2]
		local vCreatedAt = ARGV[3]

		local exists = redis.call('EXISTS', idKey)

		if exists == 1 then
			return redis.error_reply("id exists")
		end

		redis.call("HSET", idKey, "data", vData, "created_at", vCreatedAt)
		redis.call("ZADD", createdAtKey, vCreatedAt, vId)

		return 0
	`)
