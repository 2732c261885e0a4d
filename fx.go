package objbus

import (
	"context"

	"go.uber.org/fx"

	"github.com/dep2p/go-objbus/pkg/interfaces"
)

// ModuleParams fx 模块依赖参数
type ModuleParams[D any] struct {
	fx.In

	Tree *Tree[D]              `optional:"true"`
	Conn interfaces.Connection `optional:"true"`
}

// Module 返回对象总线 fx 模块
//
// 提供共享工厂，并在存在树与连接时把节点注册挂到生命周期上：
// 启动时注册全部路径，停止时全部注销。
func Module[D any](opts ...Option) fx.Option {
	return fx.Module("objbus",
		fx.Provide(func() *Factory[D] {
			return NewFactory[D](opts...)
		}),
		fx.Invoke(registerLifecycle[D]),
	)
}

func registerLifecycle[D any](lc fx.Lifecycle, params ModuleParams[D]) {
	if params.Tree == nil || params.Conn == nil {
		return
	}
	tree, conn := params.Tree, params.Conn
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return tree.SetRegistered(conn, true)
		},
		OnStop: func(ctx context.Context) error {
			return tree.SetRegistered(conn, false)
		},
	})
}
