package models

import (
	"bitbucket.org/mmdatafocus/bms_backend/config"
	"bitbucket.org/mmdatafocus/bms_backend/utils"
)

type RedisCleaner interface {
	RemoveInstanceRedis() error // remove one
	RemoveAllRedis() error      // remove cached list if exists
}

// remove both item & list
func RemoveRedisBoth[T RedisCleaner](obj T) error {
	if err := obj.RemoveInstanceRedis(); err != nil {
		return err
	}
	if err := obj.RemoveAllRedis(); err != nil {
		return err
	}
	return nil
}

func (obj Branch) RemoveInstanceRedis() error {
	return utils.RemoveRedisItem[Branch](obj.ID)
}

func (obj Branch) RemoveAllRedis() error {
	return utils.RemoveRedisList[AllBranch](obj.BusinessId)
}

func (obj Account) RemoveInstanceRedis() error {
	return utils.RemoveRedisItem[Account](obj.ID)
}

func (obj Account) RemoveAllRedis() error {
	return utils.RemoveRedisList[AllAccount](obj.BusinessId)
}

func (obj ProductCategory) RemoveInstanceRedis() error {
	return utils.RemoveRedisItem[ProductCategory](obj.ID)
}

func (obj ProductCategory) RemoveAllRedis() error {
	return utils.RemoveRedisList[AllProductCategory](obj.BusinessId)
}

func (obj ProductUnit) RemoveInstanceRedis() error {
	return utils.RemoveRedisItem[ProductUnit](obj.ID)
}

func (obj ProductUnit) RemoveAllRedis() error {
	return utils.RemoveRedisList[AllProductUnit](obj.BusinessId)
}

func (obj Product) RemoveInstanceRedis() error {
	return utils.RemoveRedisItem[Product](obj.ID)
}

func (obj Product) RemoveAllRedis() error {
	return nil
}

func (obj Supplier) RemoveInstanceRedis() error {
	return utils.RemoveRedisItem[Supplier](obj.ID)
}

func (obj Supplier) RemoveAllRedis() error {
	return nil
}

func (obj Customer) RemoveInstanceRedis() error {
	return utils.RemoveRedisItem[Customer](obj.ID)
}

func (obj Customer) RemoveAllRedis() error {
	return nil
}

func (obj PaymentMode) RemoveInstanceRedis() error {
	return nil
}

func (obj PaymentMode) RemoveAllRedis() error {
	return utils.RemoveRedisList[AllPaymentMode](obj.BusinessId)
}

func (obj Role) RemoveInstanceRedis() error {
	return utils.RemoveRedisItem[Role](obj.ID)
}

func (obj Role) RemoveAllRedis() error {
	return utils.RemoveRedisList[AllRole](obj.BusinessId)
}

// users are cached by username for login
func (obj User) RemoveInstanceRedis() error {
	return config.RemoveRedisKey("User:" + obj.Username)
}

func (obj User) RemoveAllRedis() error {
	return utils.RemoveRedisList[AllUser](obj.BusinessId)
}
